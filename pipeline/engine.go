package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/linepar/errors"
	"github.com/kbukum/linepar/loader"
	"github.com/kbukum/linepar/logger"
	"github.com/kbukum/linepar/observability"
	"github.com/kbukum/linepar/progress"
	"github.com/kbukum/linepar/sink"
	"github.com/kbukum/linepar/source"
	"github.com/kbukum/linepar/validation"
)

// SkipLine is returned by a Transform to drop the line from the output.
// Dropped lines are not written, not retained and not counted as written.
var SkipLine = stderrors.New("pipeline: skip line")

// Transform maps one input line to one output line. It runs concurrently
// on the worker pool and must not share mutable state across calls.
type Transform func(ctx context.Context, rec loader.Record) (string, error)

// Stats summarizes a finished run.
type Stats struct {
	RunID    string
	Chunks   int
	Read     int64
	Written  int64
	Dropped  int64
	Bytes    int64
	Duration time.Duration
}

// Engine runs a Transform over line-oriented inputs. An Engine holds no
// per-run state and may be reused for several runs.
type Engine struct {
	transform Transform
	opts      options
	newline   sink.Newline
	log       *logger.Logger
}

// New validates opts and returns an Engine.
func New(transform Transform, opts ...Option) (*Engine, error) {
	if transform == nil {
		return nil, errors.InvalidInput("transform", "must not be nil")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := validation.Validate(&o.settings); err != nil {
		return nil, err
	}
	newline, err := sink.ParseNewline(o.Newline)
	if err != nil {
		return nil, err
	}
	log := o.log
	if log == nil {
		log = logger.Get("pipeline")
	}
	return &Engine{transform: transform, opts: o, newline: newline, log: log}, nil
}

// Workers returns the configured pool size.
func (e *Engine) Workers() int { return e.opts.Workers }

// Run processes input and writes the results to output. An empty output
// collects the results in memory and returns them once the whole input has
// been processed; a failed run returns nil. Otherwise output is written as
// it goes, flushed after every chunk, and the returned slice is nil.
func (e *Engine) Run(ctx context.Context, input, output string) ([]string, error) {
	lines, _, err := e.RunStats(ctx, input, output)
	return lines, err
}

// RunStats is Run that also reports run statistics.
func (e *Engine) RunStats(ctx context.Context, input, output string) ([]string, Stats, error) {
	if output == "" {
		mem := sink.NewMemory()
		stats, err := e.RunTo(ctx, input, mem)
		if err != nil {
			return nil, stats, err
		}
		return mem.Lines(), stats, nil
	}

	rc, total, exact, err := e.openInput(input)
	if err != nil {
		return nil, Stats{}, err
	}
	defer rc.Close()

	f, err := sink.Create(output, sink.WithNewline(e.newline))
	if err != nil {
		return nil, Stats{}, err
	}
	stats, err := e.execute(ctx, rc, input, output, total, exact, f)
	return nil, stats, err
}

// RunTo processes input into s as it goes, so nothing is held past the
// chunk being written. Progress is sized from input like RunStats. s is
// closed before RunTo returns, including when input cannot be opened.
func (e *Engine) RunTo(ctx context.Context, input string, s sink.Sink) (Stats, error) {
	rc, total, exact, err := e.openInput(input)
	if err != nil {
		s.Close()
		return Stats{}, err
	}
	defer rc.Close()
	return e.execute(ctx, rc, input, "", total, exact, s)
}

// openInput opens input and, when progress is enabled, sizes it. A size
// failure only costs the percentage.
func (e *Engine) openInput(input string) (io.ReadCloser, int64, bool, error) {
	rc, err := source.Open(input)
	if err != nil {
		return nil, 0, false, err
	}
	if e.opts.progress == nil {
		return rc, 0, false, nil
	}
	total, exact, err := source.InputSize(input, e.opts.EstimateBudget)
	if err != nil {
		e.log.Warn("input size unknown, progress will not show a percentage",
			logger.MergeWithError(logger.Fields(logger.FieldPath, input), err))
		return rc, 0, false, nil
	}
	return rc, total, exact, nil
}

// RunReader processes r into s. Progress, if enabled, runs without a known
// total. s is closed before RunReader returns; r is not.
func (e *Engine) RunReader(ctx context.Context, r io.Reader, s sink.Sink) error {
	_, err := e.execute(ctx, r, "reader", "", 0, false, s)
	return err
}

func (e *Engine) execute(ctx context.Context, r io.Reader, name, output string, total int64, exact bool, s sink.Sink) (stats Stats, err error) {
	// A run proceeds to the end of its input or to the first failure.
	ctx = context.WithoutCancel(ctx)

	stats.RunID = uuid.NewString()
	log := e.log.WithRunID(stats.RunID)
	rc := observability.NewRunContext(stats.RunID, name, output, e.opts.metrics)
	ctx, span := rc.Start(ctx,
		attribute.Int(observability.AttrWorkers, e.opts.Workers),
		attribute.Int(observability.AttrChunkSize, e.opts.ChunkSize),
		attribute.Bool(observability.AttrOrdered, e.opts.Ordered),
	)
	defer func() {
		stats.Duration = rc.Duration()
		rc.End(ctx, span, err, errorStatus(err))
		if err != nil {
			log.Error("run failed", logger.MergeWithError(runFields(stats), err))
			return
		}
		log.Info("run finished", runFields(stats))
	}()

	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	l := loader.New(r,
		loader.WithName(name),
		loader.WithChunkSize(e.opts.ChunkSize),
		loader.WithAsync(e.opts.AsyncRead),
		loader.WithLineNumbers(e.opts.LineNumbers),
		loader.WithLogger(log.WithComponent("loader")),
	)

	var tracker *progress.Tracker
	if e.opts.progress != nil {
		tracker = progress.NewTracker(total, exact, e.opts.progress)
	}

	p := newPool(ctx, e.opts.Workers, e.opts.ChunkSize, e.transform)
	defer p.close()

	log.Info("run started", logger.Fields(
		logger.FieldPath, name,
		logger.FieldWorkers, e.opts.Workers,
		"chunk_size", e.opts.ChunkSize,
		"ordered", e.opts.Ordered,
		logger.FieldTotal, total,
	))

	err = Drain(ctx, Chunks(l), func(ctx context.Context, chunk loader.Chunk) error {
		start := time.Now()
		lines, dropped, err := p.process(chunk.Records(), e.opts.Ordered)
		if err != nil {
			return err
		}
		if err := s.Write(lines); err != nil {
			return err
		}

		stats.Chunks++
		stats.Read += int64(chunk.Len())
		stats.Written += int64(len(lines))
		stats.Dropped += int64(dropped)
		stats.Bytes += chunk.Bytes
		if tracker != nil {
			tracker.Add(chunk.Bytes)
		}

		cs := observability.ChunkStats{
			Seq:      stats.Chunks,
			Read:     chunk.Len(),
			Written:  len(lines),
			Dropped:  dropped,
			Bytes:    chunk.Bytes,
			Duration: time.Since(start),
		}
		rc.ChunkDone(ctx, span, cs)
		log.Debug("chunk written", logger.Fields(
			logger.FieldChunk, cs.Seq,
			logger.FieldLines, cs.Read,
			logger.FieldWritten, cs.Written,
			logger.FieldDropped, cs.Dropped,
		))
		return nil
	})
	if err != nil {
		return stats, err
	}
	if err := p.close(); err != nil {
		return stats, err
	}
	if tracker != nil {
		tracker.Finish()
	}
	return stats, nil
}

func runFields(s Stats) map[string]interface{} {
	return logger.Fields(
		"chunks", s.Chunks,
		logger.FieldLines, s.Read,
		logger.FieldWritten, s.Written,
		logger.FieldDropped, s.Dropped,
		logger.FieldBytes, s.Bytes,
		logger.FieldDuration, s.Duration.Milliseconds(),
	)
}

func errorStatus(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return observability.StatusError
}
