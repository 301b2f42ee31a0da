// Command invopt optimizes the echelon base-stock levels of a supply network
// described in a YAML file and prints a JSON report.
//
// Usage:
//
//	invopt [-config net.yaml] [-mode optimize|find-lr|one-cycle|explore] [-log-level info]
//	invopt -write-sample net.yaml
//
// Without -config the built-in three-stage sample is used. Progress is logged
// as JSON to stderr; the report goes to stdout.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/katalvlaran/invopt/optimize"
)

func main() {
	configPath := flag.String("config", "", "path to YAML network config")
	mode := flag.String("mode", "optimize", "optimize, find-lr, one-cycle or explore")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	writeSample := flag.String("write-sample", "", "write the sample config to path and exit")
	flag.Parse()

	if *writeSample != "" {
		if err := os.WriteFile(*writeSample, []byte(sampleConfig), 0o644); err != nil {
			fatal(err)
		}
		fmt.Fprintf(os.Stderr, "wrote sample config to %s\n", *writeSample)
		return
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fatal(errors.Wrap(err, "log level"))
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	if err := run(os.Stdout, logger, cfg, *mode); err != nil {
		fatal(err)
	}
}

// run executes one mode and writes its report to w.
func run(w io.Writer, logger *slog.Logger, cfg Config, mode string) error {
	runID := uuid.New().String()
	logger = logger.With("run_id", runID, "mode", mode)

	net, err := cfg.Network()
	if err != nil {
		return err
	}
	logger.Info("network loaded", "stages", net.Len(), "sinks", len(net.Sinks()), "max_lead_time", net.MaxLeadTime())

	start := time.Now()
	var report Report
	switch mode {
	case "optimize":
		opts, err := cfg.Options()
		if err != nil {
			return err
		}
		res, err := optimize.Optimize(net, opts)
		if err != nil {
			return errors.Wrap(err, "optimize")
		}
		logResult(logger, res)
		report = resultReport(runID, mode, net, res)

	case "find-lr":
		res, err := optimize.FindLearningRate(net, cfg.RangeTestOptions())
		if err != nil {
			return errors.Wrap(err, "range test")
		}
		logger.Info("range test finished", "steps", len(res.Rates), "optimal_lr", res.OptimalRate, "diverged", res.Diverged)
		report = rangeTestReport(runID, net, res)

	case "one-cycle":
		res, err := optimize.OptimizeOneCycle(net, cfg.OneCycleOptions())
		if err != nil {
			return errors.Wrap(err, "one-cycle")
		}
		logResult(logger, res.Result)
		report = resultReport(runID, mode, net, res.Result)
		report.LRSchedule, report.MomSchedule = res.LRSchedule, res.MomSchedule

	case "explore":
		opts, err := cfg.Options()
		if err != nil {
			return err
		}
		rates := cfg.Optimizer.ExploreRates
		if len(rates) == 0 {
			rates = []float64{opts.LearningRate}
		}
		results, err := optimize.ExploreLearningRates(net, opts, rates)
		if err != nil {
			return errors.Wrap(err, "explore")
		}
		for i, res := range results {
			logger.Debug("candidate finished", "lr", rates[i], "status", res.Status.String(), "best_cost", costValue(res.BestCost))
		}
		report = exploreReport(runID, net, rates, results)

	default:
		return errors.Errorf("unknown mode %q", mode)
	}
	logger.Info("run finished", "elapsed", time.Since(start).String())

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(report), "write report")
}

func logResult(logger *slog.Logger, res *optimize.Result) {
	attrs := []any{"status", res.Status.String(), "iterations", res.Iterations, "best_cost", costValue(res.BestCost)}
	if res.Status == optimize.Diverged {
		d := res.Diagnostics
		logger.Warn("optimization diverged", append(attrs, "iteration", d.Iteration, "levels", fmt.Sprint(d.Levels), "capacities", fmt.Sprint(d.Capacities))...)
		return
	}
	logger.Info("optimization finished", attrs...)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %s\n", err)
	os.Exit(1)
}
