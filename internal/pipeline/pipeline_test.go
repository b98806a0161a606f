package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/datavet/vetctl/internal/artifacts"
	"github.com/datavet/vetctl/internal/dataset"
	"github.com/datavet/vetctl/internal/inject"
	"github.com/datavet/vetctl/internal/schema"
	"github.com/datavet/vetctl/internal/testutil/testlog"
)

func toySpec() dataset.Spec {
	return dataset.Spec{
		Name:        "toy",
		Columns:     []string{"age", "city"},
		Numeric:     []string{"age"},
		Categorical: []string{"city"},
		NAValues:    []string{"?"},
	}
}

// writeToyCSV writes 40 rows where every distinct value appears 20 times,
// so a 20% eval split cannot produce values or bounds the train split
// has not seen.
func writeToyCSV(t *testing.T) string {
	t.Helper()
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		age := "30"
		if i%2 == 1 {
			age = "40"
		}
		city := "oslo"
		if i >= 20 {
			city = "bergen"
		}
		sb.WriteString(age + "," + city + "\n")
	}
	path := filepath.Join(t.TempDir(), "toy.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func toyConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataPath = writeToyCSV(t)
	cfg.OutputDir = filepath.Join(t.TempDir(), "outputs")
	cfg.Dataset = toySpec()
	cfg.InjectAnomalies = false
	cfg.Inject = nil
	return cfg
}

func TestRunCleanData(t *testing.T) {
	testlog.Start(t)
	cfg := toyConfig(t)

	result, err := NewService(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.TrainRows != 32 || result.EvalRows != 8 {
		t.Fatalf("split sizes: train=%d eval=%d", result.TrainRows, result.EvalRows)
	}
	if !result.Anomalies.Empty() {
		t.Fatalf("clean data must validate, got %+v", result.Anomalies.Items)
	}
	if result.RunID == "" {
		t.Fatalf("missing run id")
	}

	for _, name := range []string{
		artifacts.TrainStatsFile,
		artifacts.EvalStatsFile,
		artifacts.SchemaFile,
		artifacts.AnomaliesFile,
		artifacts.ManifestFile,
	} {
		if _, err := os.Stat(filepath.Join(result.ArtifactDir, name)); err != nil {
			t.Fatalf("artifact %s: %v", name, err)
		}
	}
}

func TestRunWithInjectionFindsAnomalies(t *testing.T) {
	testlog.Start(t)
	cfg := toyConfig(t)
	cfg.InjectAnomalies = true
	cfg.Inject = []inject.Spec{
		{Kind: inject.BadTypeID, Column: "age", Fraction: 0.5},
		{Kind: inject.CategoryID, Column: "city", Value: "gamer", Count: 4},
	}

	result, err := NewService(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	found := make(map[schema.Code]bool)
	for _, item := range result.Anomalies.Items {
		found[item.Code] = true
	}
	if !found[schema.CodeInvalidValues] {
		t.Fatalf("expected INVALID_VALUES, got %+v", result.Anomalies.Items)
	}
	if !found[schema.CodeUnexpectedValues] {
		t.Fatalf("expected CATEGORY_UNEXPECTED_VALUES, got %+v", result.Anomalies.Items)
	}
}

func TestRunFailOnAnomalies(t *testing.T) {
	testlog.Start(t)
	cfg := toyConfig(t)
	cfg.InjectAnomalies = true
	cfg.FailOnAnomalies = true
	cfg.Inject = []inject.Spec{
		{Kind: inject.CategoryID, Column: "city", Value: "gamer", Count: 4},
	}

	result, err := NewService(cfg).Run(context.Background())
	if !errors.Is(err, ErrAnomaliesFound) {
		t.Fatalf("expected ErrAnomaliesFound, got %v", err)
	}
	// artifacts are still written before the failure is reported
	if result.RunID == "" || len(result.ArtifactList) == 0 {
		t.Fatalf("result must carry the completed run: %+v", result)
	}
	if _, statErr := os.Stat(filepath.Join(result.ArtifactDir, artifacts.ManifestFile)); statErr != nil {
		t.Fatalf("manifest: %v", statErr)
	}
}

func TestRunWritesHTMLReport(t *testing.T) {
	testlog.Start(t)
	cfg := toyConfig(t)
	cfg.WriteHTML = true

	result, err := NewService(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(result.ArtifactDir, artifacts.ReportFile)); err != nil {
		t.Fatalf("report: %v", err)
	}
}

func TestRunCanceledContext(t *testing.T) {
	testlog.Start(t)
	cfg := toyConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewService(cfg).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunMissingDataFile(t *testing.T) {
	testlog.Start(t)
	cfg := toyConfig(t)
	cfg.DataPath = filepath.Join(t.TempDir(), "nope.csv")

	if _, err := NewService(cfg).Run(context.Background()); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestValidateConfigRejections(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data path", func(c *Config) { c.DataPath = "" }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"zero fraction", func(c *Config) { c.EvalFraction = 0 }},
		{"fraction one", func(c *Config) { c.EvalFraction = 1 }},
		{"negative presence", func(c *Config) { c.Schema.MinPresence = -0.1 }},
		{"slack too large", func(c *Config) { c.Schema.DomainSlack = 1 }},
		{"bad dataset", func(c *Config) { c.Dataset.Columns = nil }},
		{"unknown inject kind", func(c *Config) {
			c.Inject = []inject.Spec{{Kind: "inject.bogus", Column: "age"}}
		}},
		{"inject role mismatch", func(c *Config) {
			c.Inject = []inject.Spec{{Kind: inject.BadTypeID, Column: "workclass"}}
		}},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if err := ValidateConfig(cfg); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
