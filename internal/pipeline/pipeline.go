// Package pipeline wires the validation stages into one run: read, split,
// inject, coerce, statistics, schema inference, validation, artifacts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/datavet/vetctl/internal/artifacts"
	"github.com/datavet/vetctl/internal/dataset"
	"github.com/datavet/vetctl/internal/frame"
	"github.com/datavet/vetctl/internal/inject"
	"github.com/datavet/vetctl/internal/schema"
	"github.com/datavet/vetctl/internal/stats"
)

var (
	ErrAnomaliesFound = errors.New("pipeline: anomalies detected")
)

// Config is the full runtime configuration for one pipeline run.
type Config struct {
	DataPath        string
	OutputDir       string
	EvalFraction    float64
	Seed            int64
	InjectAnomalies bool
	WriteHTML       bool
	FailOnAnomalies bool
	Dataset         dataset.Spec
	Schema          schema.Options
	Inject          []inject.Spec
}

// DefaultConfig mirrors the defaults the tool ships with: the Adult census
// roster, a 20% eval split, and the stock injection steps.
func DefaultConfig() Config {
	return Config{
		DataPath:        filepath.Join("data", "adult.data"),
		OutputDir:       "outputs",
		EvalFraction:    0.2,
		Seed:            42,
		InjectAnomalies: true,
		Dataset:         dataset.Adult(),
		Schema:          schema.DefaultOptions(),
		Inject:          DefaultInjectSpecs(),
	}
}

// DefaultInjectSpecs covers every anomaly class the validator knows:
// type corruption, range escape, unseen category, and dropped presence.
func DefaultInjectSpecs() []inject.Spec {
	return []inject.Spec{
		{Kind: inject.BadTypeID, Column: "age", Fraction: 0.02},
		{Kind: inject.RangeID, Column: "hours-per-week", Value: "-5", Count: 8},
		{Kind: inject.CategoryID, Column: "relationship", Value: "gamer", Fraction: 0.03},
		{Kind: inject.MissingID, Column: "workclass", Fraction: 0.15},
	}
}

// ValidateConfig rejects configs the run could not honor.
func ValidateConfig(cfg Config) error {
	if cfg.DataPath == "" {
		return fmt.Errorf("pipeline config missing data_path")
	}
	if cfg.OutputDir == "" {
		return fmt.Errorf("pipeline config missing output_dir")
	}
	if cfg.EvalFraction <= 0 || cfg.EvalFraction >= 1 {
		return fmt.Errorf("pipeline config eval_fraction %v outside (0, 1)", cfg.EvalFraction)
	}
	if cfg.Schema.MinPresence < 0 || cfg.Schema.MinPresence > 1 {
		return fmt.Errorf("pipeline config schema.min_presence %v outside [0, 1]", cfg.Schema.MinPresence)
	}
	if cfg.Schema.DomainSlack < 0 || cfg.Schema.DomainSlack >= 1 {
		return fmt.Errorf("pipeline config schema.domain_slack %v outside [0, 1)", cfg.Schema.DomainSlack)
	}
	if err := dataset.Validate(cfg.Dataset); err != nil {
		return err
	}
	if _, err := inject.Builtin().Build(cfg.Inject, cfg.Dataset); err != nil {
		return fmt.Errorf("pipeline config: %w", err)
	}
	return nil
}

// Result summarizes a completed run.
type Result struct {
	RunID        string
	TrainRows    int
	EvalRows     int
	Anomalies    schema.Anomalies
	ArtifactDir  string
	ArtifactList []string
}

// Service runs the validation pipeline.
type Service struct {
	cfg      Config
	registry *inject.Registry
}

// NewService builds a service with the builtin injector registry.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg, registry: inject.Builtin()}
}

// Run executes the fixed stage sequence. Context cancellation is honored
// between stages. With FailOnAnomalies set, a non-empty validation result
// returns ErrAnomaliesFound after all artifacts are written.
func (s *Service) Run(ctx context.Context) (Result, error) {
	if err := ValidateConfig(s.cfg); err != nil {
		return Result{}, err
	}

	runID := artifacts.NewRunID()
	logger := log.With().Str("run_id", runID).Logger()
	start := time.Now()

	full, err := frame.ReadCSV(s.cfg.DataPath, s.cfg.Dataset)
	if err != nil {
		return Result{}, err
	}
	logger.Info().Str("stage", "read").Str("path", s.cfg.DataPath).
		Int("rows", full.NumRows()).Int("columns", full.NumColumns()).Msg("dataset loaded")
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	train, eval, err := full.Split(s.cfg.EvalFraction, s.cfg.Seed)
	if err != nil {
		return Result{}, err
	}
	logger.Info().Str("stage", "split").Float64("eval_fraction", s.cfg.EvalFraction).
		Int64("seed", s.cfg.Seed).Int("train_rows", train.NumRows()).
		Int("eval_rows", eval.NumRows()).Msg("train/eval split")
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var reports []inject.Report
	if s.cfg.InjectAnomalies {
		reports, err = s.injectAnomalies(eval)
		if err != nil {
			return Result{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	for name, count := range train.Coerce() {
		logger.Warn().Str("stage", "coerce").Str("split", "train").
			Str("column", name).Int("invalid", count).Msg("non-numeric cells in numeric column")
	}
	for name, count := range eval.Coerce() {
		logger.Warn().Str("stage", "coerce").Str("split", "eval").
			Str("column", name).Int("invalid", count).Msg("non-numeric cells in numeric column")
	}

	trainStats := stats.Generate(train)
	evalStats := stats.Generate(eval)
	logger.Info().Str("stage", "stats").Int("features", len(trainStats.Features)).Msg("statistics generated")
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	sch := schema.Infer(trainStats, s.cfg.Dataset.Name, s.cfg.Schema)
	anomalies := schema.Validate(evalStats, sch, s.cfg.Schema)
	logger.Info().Str("stage", "validate").Int("anomalies", len(anomalies.Items)).Msg("eval validated against schema")
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	paths, err := s.persist(runID, trainStats, evalStats, sch, anomalies, train.NumRows(), eval.NumRows(), reports)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		RunID:        runID,
		TrainRows:    train.NumRows(),
		EvalRows:     eval.NumRows(),
		Anomalies:    anomalies,
		ArtifactDir:  paths.dir,
		ArtifactList: paths.files,
	}
	logger.Info().Str("stage", "done").Dur("took", time.Since(start)).
		Str("output_dir", paths.dir).Msg("pipeline complete")

	if s.cfg.FailOnAnomalies && !anomalies.Empty() {
		return result, fmt.Errorf("%w: %d", ErrAnomaliesFound, len(anomalies.Items))
	}
	return result, nil
}

func (s *Service) injectAnomalies(eval *frame.Frame) ([]inject.Report, error) {
	injectors, err := s.registry.Build(s.cfg.Inject, s.cfg.Dataset)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(s.cfg.Seed))
	reports := make([]inject.Report, 0, len(injectors))
	for _, inj := range injectors {
		report, err := inj.Apply(eval, rng)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %s: %w", inj.Metadata().ID, err)
		}
		log.Info().Str("stage", "inject").Str("kind", report.Kind).
			Str("column", report.Column).Int("rows", report.RowsAffected).
			Str("note", report.Note).Msg("anomaly injected")
		reports = append(reports, report)
	}
	return reports, nil
}

type persisted struct {
	dir   string
	files []string
}

func (s *Service) persist(
	runID string,
	trainStats, evalStats stats.DatasetStats,
	sch schema.Schema,
	anomalies schema.Anomalies,
	trainRows, evalRows int,
	reports []inject.Report,
) (persisted, error) {
	store, err := artifacts.NewStore(s.cfg.OutputDir)
	if err != nil {
		return persisted{}, err
	}

	var files []string
	writes := []func() (string, error){
		func() (string, error) { return store.WriteTrainStats(trainStats) },
		func() (string, error) { return store.WriteEvalStats(evalStats) },
		func() (string, error) { return store.WriteSchema(sch) },
		func() (string, error) { return store.WriteAnomalies(anomalies) },
	}
	if s.cfg.WriteHTML {
		writes = append(writes, func() (string, error) {
			return store.WriteReport(s.cfg.Dataset.Name, trainStats, evalStats)
		})
	}
	for _, write := range writes {
		path, err := write()
		if err != nil {
			return persisted{}, err
		}
		files = append(files, path)
	}

	manifest := artifacts.Manifest{
		RunID:        runID,
		Dataset:      s.cfg.Dataset.Name,
		CreatedAt:    time.Now().UTC(),
		DataPath:     s.cfg.DataPath,
		EvalFraction: s.cfg.EvalFraction,
		Seed:         s.cfg.Seed,
		TrainRows:    trainRows,
		EvalRows:     evalRows,
		Injections:   reports,
		AnomalyCount: len(anomalies.Items),
		Artifacts:    files,
	}
	manifestPath, err := store.WriteManifest(manifest)
	if err != nil {
		return persisted{}, err
	}
	files = append(files, manifestPath)

	return persisted{dir: store.Root(), files: files}, nil
}
