package main

import (
	"context"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbukum/linepar/config"
	"github.com/kbukum/linepar/errors"
	"github.com/kbukum/linepar/logger"
	"github.com/kbukum/linepar/observability"
	"github.com/kbukum/linepar/pipeline"
	"github.com/kbukum/linepar/progress"
	"github.com/kbukum/linepar/sink"
	"github.com/kbukum/linepar/transform"
	"github.com/kbukum/linepar/version"
)

const (
	progressInterval = time.Second
	shutdownTimeout  = 5 * time.Second
)

// runFlagKeys maps flags whose names differ from their config keys.
var runFlagKeys = map[string]string{
	"config":        "",
	"env-file":      "",
	"exec":          "exec.command",
	"shell":         "exec.shell",
	"exec-timeout":  "exec.timeout",
	"log-level":     "logging.level",
	"log-format":    "logging.format",
	"otel-endpoint": "telemetry.endpoint",
}

func runFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.String("config", "", "config file (default: search for "+config.FileName+")")
	fs.String("env-file", "", ".env file (default: ./.env if present)")
	fs.IntP("workers", "w", 0, "worker pool size (default: number of CPUs)")
	fs.IntP("chunk-size", "c", 0, "lines read and dispatched per step")
	fs.Bool("ordered", false, "keep input order within each chunk")
	fs.Bool("line-numbers", false, "hand transforms 1-based line indices")
	fs.String("newline", "", "output line terminator: lf or crlf")
	fs.Bool("async", true, "read ahead on a background goroutine")
	fs.Bool("progress", false, "log progress while running")
	fs.Int64("estimate-budget", 0, "decompressed bytes sampled to size a .gz input (-1 reads it all)")
	fs.StringP("transform", "t", "", "built-in transform to apply")
	fs.String("pattern", "", "regular expression for grep and grep-v")
	fs.String("separator", "", "separator between index and line for number")
	fs.String("exec", "", "command each line is piped through for exec")
	fs.Bool("shell", false, "run the exec command through /bin/sh")
	fs.Duration("exec-timeout", 0, "per-line timeout for exec")
	fs.String("log-level", "", "log level")
	fs.String("log-format", "", "log format: json, console or pretty")
	fs.String("otel-endpoint", "", "OTLP/HTTP endpoint for traces and metrics")
	return fs
}

func (a *app) runCmd(ctx context.Context, args []string) int {
	fs := runFlags()
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	opts := []config.LoaderOption{config.WithFlags(fs, runFlagKeys)}
	if path, _ := fs.GetString("config"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if path, _ := fs.GetString("env-file"); path != "" {
		opts = append(opts, config.WithEnvFile(path))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return a.fail(err)
	}

	switch fs.NArg() {
	case 2:
		cfg.Output = fs.Arg(1)
		fallthrough
	case 1:
		cfg.Input = fs.Arg(0)
	case 0:
	default:
		return a.fail(errors.InvalidInput("args", "expected INPUT [OUTPUT]"))
	}
	if cfg.Input == "" {
		return a.fail(errors.InvalidInput("input", "is required"))
	}

	logger.Init(&cfg.Logging)
	if err := a.runPipeline(ctx, cfg); err != nil {
		return a.fail(err)
	}
	return exitOK
}

func (a *app) runPipeline(ctx context.Context, cfg *config.Config) error {
	log := logger.Get("cli")
	info := version.Get()

	shutdown, err := observability.Setup(ctx, &cfg.Telemetry, info.Short())
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			log.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}()

	fn, spec, err := transform.Build(cfg.Transform, transform.Config{
		Pattern:   cfg.Pattern,
		Separator: cfg.Separator,
		Exec:      cfg.Exec,
	})
	if err != nil {
		return err
	}
	newline, err := sink.ParseNewline(cfg.Newline)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithChunkSize(cfg.ChunkSize),
		pipeline.WithOrdered(cfg.Ordered),
		pipeline.WithLineNumbers(cfg.LineNumbers || spec.LineNumbers),
		pipeline.WithNewline(newline),
		pipeline.WithAsyncRead(cfg.Async),
		pipeline.WithEstimateBudget(cfg.EstimateBudget),
		pipeline.WithLogger(logger.Get("pipeline")),
	}
	if cfg.Progress {
		opts = append(opts, pipeline.WithProgress(
			progress.Throttle(progress.LogReporter(logger.Get("progress")), progressInterval)))
	}
	if cfg.Telemetry.Enabled() {
		metrics, err := observability.NewPipelineMetrics(observability.Meter(observability.InstrumentationName))
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithMetrics(metrics))
	}

	engine, err := pipeline.New(fn, opts...)
	if err != nil {
		return err
	}

	log.Debug("starting run", logger.Fields(
		logger.FieldPath, cfg.Input,
		"transform", spec.Name,
		logger.FieldWorkers, engine.Workers(),
	))

	var stats pipeline.Stats
	if cfg.Output == "" {
		stats, err = engine.RunTo(ctx, cfg.Input, sink.NewWriter(a.stdout, "stdout", sink.WithNewline(newline)))
	} else {
		_, stats, err = engine.RunStats(ctx, cfg.Input, cfg.Output)
	}
	if err != nil {
		return err
	}

	log.Info("run finished", logger.Fields(
		logger.FieldRunID, stats.RunID,
		"chunks", stats.Chunks,
		logger.FieldLines, stats.Read,
		logger.FieldWritten, stats.Written,
		logger.FieldDropped, stats.Dropped,
		logger.FieldDuration, stats.Duration.Milliseconds(),
	))
	return nil
}
