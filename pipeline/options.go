package pipeline

import (
	"runtime"

	"github.com/kbukum/linepar/loader"
	"github.com/kbukum/linepar/logger"
	"github.com/kbukum/linepar/observability"
	"github.com/kbukum/linepar/progress"
	"github.com/kbukum/linepar/sink"
)

// Option configures an Engine.
type Option func(*options)

// settings holds the validated knobs.
type settings struct {
	Workers        int    `mapstructure:"workers" validate:"gte=1"`
	ChunkSize      int    `mapstructure:"chunk_size" validate:"gte=1"`
	Newline        string `mapstructure:"newline" validate:"oneof=lf crlf"`
	EstimateBudget int64  `mapstructure:"estimate_budget" validate:"gte=-1"`
	Ordered        bool   `mapstructure:"ordered"`
	LineNumbers    bool   `mapstructure:"line_numbers"`
	AsyncRead      bool   `mapstructure:"async"`
}

type options struct {
	settings
	progress progress.Func
	log      *logger.Logger
	metrics  *observability.PipelineMetrics
}

func defaultOptions() options {
	return options{settings: settings{
		Workers:   runtime.NumCPU(),
		ChunkSize: loader.DefaultChunkSize,
		Newline:   sink.LF.String(),
		AsyncRead: true,
	}}
}

// WithWorkers sets the worker pool size. Defaults to runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) { o.Workers = n }
}

// WithChunkSize sets the number of lines read and dispatched per step.
func WithChunkSize(n int) Option {
	return func(o *options) { o.ChunkSize = n }
}

// WithOrdered selects input-order (true) or completion-order (false, the
// default) output within each chunk. Chunks are always written in input
// order.
func WithOrdered(ordered bool) Option {
	return func(o *options) { o.Ordered = ordered }
}

// WithLineNumbers hands transforms 1-based line indices.
func WithLineNumbers(enabled bool) Option {
	return func(o *options) { o.LineNumbers = enabled }
}

// WithNewline sets the terminator used by file outputs.
func WithNewline(n sink.Newline) Option {
	return func(o *options) { o.Newline = n.String() }
}

// WithAsyncRead selects background readahead (the default) or reading on
// the run's goroutine.
func WithAsyncRead(async bool) Option {
	return func(o *options) { o.AsyncRead = async }
}

// WithProgress enables progress accounting and reports updates to fn.
func WithProgress(fn progress.Func) Option {
	return func(o *options) { o.progress = fn }
}

// WithEstimateBudget sets how many decompressed bytes of a ".gz" input are
// sampled to estimate its size for progress. 0 uses the default and
// source.EstimateAll decompresses the whole file.
func WithEstimateBudget(n int64) Option {
	return func(o *options) { o.EstimateBudget = n }
}

// WithLogger sets the logger. Defaults to the "pipeline" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records run and chunk metrics on m.
func WithMetrics(m *observability.PipelineMetrics) Option {
	return func(o *options) { o.metrics = m }
}
