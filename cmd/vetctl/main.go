package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/datavet/vetctl/internal/logging"
	"github.com/datavet/vetctl/internal/pipeline"
)

func main() {
	logging.ConfigureRuntime("vetctl")

	opts, err := loadRunOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "vetctl: %v\n", err)
		os.Exit(2)
	}
	if opts.logLevel != "" && !logging.SetLevel(opts.logLevel) {
		log.Warn().Str("log_level", opts.logLevel).Msg("unknown log level, keeping default")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.NewService(opts.cfg).Run(ctx)
	if err != nil {
		if errors.Is(err, pipeline.ErrAnomaliesFound) {
			printSummary(result)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "vetctl: %v\n", err)
		os.Exit(1)
	}
	printSummary(result)
}

func printSummary(r pipeline.Result) {
	fmt.Printf("run %s: train=%d eval=%d artifacts=%s\n",
		r.RunID, r.TrainRows, r.EvalRows, r.ArtifactDir)
	if r.Anomalies.Empty() {
		fmt.Println("no anomalies detected")
		return
	}
	fmt.Printf("detected %d anomalies:\n", len(r.Anomalies.Items))
	for _, a := range r.Anomalies.Items {
		fmt.Printf("  %-20s %-28s %s\n", a.Feature, a.Code, a.Description)
	}
}
