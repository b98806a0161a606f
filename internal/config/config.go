// Package config loads pipeline configuration from TOML, overlaying the
// file onto the shipped defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/datavet/vetctl/internal/inject"
	"github.com/datavet/vetctl/internal/pipeline"
	"github.com/datavet/vetctl/internal/schema"
)

// fileConfig maps config.toml keys onto pipeline runtime settings.
type fileConfig struct {
	DataPath        string         `toml:"data_path"`
	OutputDir       string         `toml:"output_dir"`
	EvalFraction    float64        `toml:"eval_fraction"`
	Seed            int64          `toml:"seed"`
	InjectAnomalies bool           `toml:"inject_anomalies"`
	WriteHTML       bool           `toml:"write_html"`
	FailOnAnomalies bool           `toml:"fail_on_anomalies"`
	Schema          schemaConfig   `toml:"schema"`
	Dataset         datasetConfig  `toml:"dataset"`
	Inject          []injectConfig `toml:"inject"`
}

type schemaConfig struct {
	MinPresence float64 `toml:"min_presence"`
	DomainSlack float64 `toml:"domain_slack"`
	InferBounds bool    `toml:"infer_bounds"`
}

type datasetConfig struct {
	Name        string   `toml:"name"`
	Columns     []string `toml:"columns"`
	Numeric     []string `toml:"numeric"`
	Categorical []string `toml:"categorical"`
	NAValues    []string `toml:"na_values"`
	Label       string   `toml:"label"`
}

type injectConfig struct {
	Kind     string  `toml:"kind"`
	Column   string  `toml:"column"`
	Value    string  `toml:"value"`
	Count    int     `toml:"count"`
	Fraction float64 `toml:"fraction"`
}

// LoadPipelineConfig reads a TOML config with default overlay: only keys
// present in the file override the defaults, and an [[inject]] list
// replaces the default injection steps wholesale.
func LoadPipelineConfig(path string) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("load pipeline config: %w", err)
	}

	if meta.IsDefined("data_path") {
		cfg.DataPath = strings.TrimSpace(raw.DataPath)
	}
	if meta.IsDefined("output_dir") {
		cfg.OutputDir = strings.TrimSpace(raw.OutputDir)
	}
	if meta.IsDefined("eval_fraction") {
		cfg.EvalFraction = raw.EvalFraction
	}
	if meta.IsDefined("seed") {
		cfg.Seed = raw.Seed
	}
	if meta.IsDefined("inject_anomalies") {
		cfg.InjectAnomalies = raw.InjectAnomalies
	}
	if meta.IsDefined("write_html") {
		cfg.WriteHTML = raw.WriteHTML
	}
	if meta.IsDefined("fail_on_anomalies") {
		cfg.FailOnAnomalies = raw.FailOnAnomalies
	}

	cfg.Schema = overlaySchema(cfg.Schema, raw.Schema, meta)
	overlayDataset(&cfg, raw.Dataset, meta)
	if meta.IsDefined("inject") {
		cfg.Inject = convertInject(raw.Inject)
	}

	if err := pipeline.ValidateConfig(cfg); err != nil {
		return pipeline.Config{}, fmt.Errorf("load pipeline config (%s): %w", path, err)
	}
	return cfg, nil
}

func overlaySchema(opts schema.Options, raw schemaConfig, meta toml.MetaData) schema.Options {
	if meta.IsDefined("schema", "min_presence") {
		opts.MinPresence = raw.MinPresence
	}
	if meta.IsDefined("schema", "domain_slack") {
		opts.DomainSlack = raw.DomainSlack
	}
	if meta.IsDefined("schema", "infer_bounds") {
		opts.InferBounds = raw.InferBounds
	}
	return opts
}

func overlayDataset(cfg *pipeline.Config, raw datasetConfig, meta toml.MetaData) {
	if meta.IsDefined("dataset", "name") {
		cfg.Dataset.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("dataset", "columns") {
		cfg.Dataset.Columns = raw.Columns
	}
	if meta.IsDefined("dataset", "numeric") {
		cfg.Dataset.Numeric = raw.Numeric
	}
	if meta.IsDefined("dataset", "categorical") {
		cfg.Dataset.Categorical = raw.Categorical
	}
	if meta.IsDefined("dataset", "na_values") {
		cfg.Dataset.NAValues = raw.NAValues
	}
	if meta.IsDefined("dataset", "label") {
		cfg.Dataset.Label = strings.TrimSpace(raw.Label)
	} else if meta.IsDefined("dataset", "columns") {
		// the default label names a default-roster column
		cfg.Dataset.Label = ""
	}
}

func convertInject(raw []injectConfig) []inject.Spec {
	out := make([]inject.Spec, 0, len(raw))
	for _, step := range raw {
		out = append(out, inject.Spec{
			Kind:     strings.TrimSpace(step.Kind),
			Column:   strings.TrimSpace(step.Column),
			Value:    step.Value,
			Count:    step.Count,
			Fraction: step.Fraction,
		})
	}
	return out
}
