// Package artifacts persists pipeline outputs under one run directory.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/datavet/vetctl/internal/schema"
	"github.com/datavet/vetctl/internal/stats"
)

// Artifact file names, fixed so downstream consumers can rely on them.
const (
	TrainStatsFile = "train_stats.yaml"
	EvalStatsFile  = "eval_stats.yaml"
	SchemaFile     = "schema.yaml"
	AnomaliesFile  = "anomalies.yaml"
	ManifestFile   = "manifest.json"
	ReportFile     = "stats_overview.html"
)

// Store writes artifacts scoped under a root directory.
type Store struct {
	root string
}

// NewStore creates the output directory (if needed) and returns a store
// rooted there.
func NewStore(root string) (*Store, error) {
	resolved := strings.TrimSpace(root)
	if resolved == "" {
		return nil, fmt.Errorf("artifacts: missing output dir")
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return nil, fmt.Errorf("artifacts: resolve output dir %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("artifacts: create output dir %q: %w", abs, err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute output directory.
func (s *Store) Root() string {
	return s.root
}

// WriteTrainStats persists the train split statistics.
func (s *Store) WriteTrainStats(d stats.DatasetStats) (string, error) {
	return s.writeYAML(TrainStatsFile, d)
}

// WriteEvalStats persists the eval split statistics.
func (s *Store) WriteEvalStats(d stats.DatasetStats) (string, error) {
	return s.writeYAML(EvalStatsFile, d)
}

// WriteSchema persists the inferred schema.
func (s *Store) WriteSchema(sch schema.Schema) (string, error) {
	return s.writeYAML(SchemaFile, sch)
}

// WriteAnomalies persists the validation result, including the empty case.
func (s *Store) WriteAnomalies(a schema.Anomalies) (string, error) {
	return s.writeYAML(AnomaliesFile, a)
}

func (s *Store) writeYAML(name string, v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("artifacts: encode %s: %w", name, err)
	}
	return s.writeFile(name, data)
}

func (s *Store) writeFile(name string, data []byte) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("artifacts: write %s: %w", name, err)
	}
	return path, nil
}

func (s *Store) resolve(name string) (string, error) {
	rel := strings.TrimSpace(name)
	if rel == "" {
		return "", fmt.Errorf("artifacts: missing file name")
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("artifacts: absolute path not allowed: %s", rel)
	}
	p := filepath.Clean(filepath.Join(s.root, rel))
	if !isWithin(p, s.root) {
		return "", fmt.Errorf("artifacts: path escapes output dir: %s", rel)
	}
	return p, nil
}

func isWithin(path string, root string) bool {
	p := filepath.Clean(path)
	r := filepath.Clean(root)
	if p == r {
		return true
	}
	return strings.HasPrefix(p, r+string(os.PathSeparator))
}
