package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/datavet/vetctl/internal/config"
	"github.com/datavet/vetctl/internal/pipeline"
)

// runOptions carries everything the binary needs beyond the pipeline
// config itself.
type runOptions struct {
	cfg      pipeline.Config
	logLevel string
}

// loadRunOptions resolves the effective config: shipped defaults, then the
// optional TOML file, then explicitly-set flags on top.
func loadRunOptions(args []string) (runOptions, error) {
	fs := flag.NewFlagSet("vetctl", flag.ContinueOnError)
	configPath := fs.String("config", "", "pipeline config TOML (optional)")
	dataPath := fs.String("data", "", "dataset CSV path")
	outputDir := fs.String("output", "", "artifact output directory")
	evalFraction := fs.Float64("eval-fraction", 0, "fraction of rows held out for eval")
	seed := fs.Int64("seed", 0, "random seed for the split and injection")
	noInject := fs.Bool("no-inject", false, "disable synthetic anomaly injection")
	html := fs.Bool("html", false, "write the stats_overview.html report")
	failOnAnomalies := fs.Bool("fail-on-anomalies", false, "exit non-zero when validation finds anomalies")
	logLevel := fs.String("log-level", "", "log level override (trace|debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		return runOptions{}, err
	}
	if fs.NArg() > 0 {
		return runOptions{}, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	cfg := pipeline.DefaultConfig()
	if path := strings.TrimSpace(*configPath); path != "" {
		loaded, err := config.LoadPipelineConfig(path)
		if err != nil {
			return runOptions{}, err
		}
		cfg = loaded
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["data"] {
		cfg.DataPath = strings.TrimSpace(*dataPath)
	}
	if set["output"] {
		cfg.OutputDir = strings.TrimSpace(*outputDir)
	}
	if set["eval-fraction"] {
		cfg.EvalFraction = *evalFraction
	}
	if set["seed"] {
		cfg.Seed = *seed
	}
	if set["no-inject"] {
		cfg.InjectAnomalies = !*noInject
	}
	if set["html"] {
		cfg.WriteHTML = *html
	}
	if set["fail-on-anomalies"] {
		cfg.FailOnAnomalies = *failOnAnomalies
	}

	if err := pipeline.ValidateConfig(cfg); err != nil {
		return runOptions{}, err
	}
	return runOptions{cfg: cfg, logLevel: strings.TrimSpace(*logLevel)}, nil
}
