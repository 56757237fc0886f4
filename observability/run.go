package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Run statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// RunContext holds observability state for one pipeline run.
type RunContext struct {
	RunID     string
	Input     string
	Output    string
	StartTime time.Time
	Metrics   *PipelineMetrics
}

// NewRunContext creates a run context. If metrics is nil, metric recording
// is silently skipped.
func NewRunContext(runID, input, output string, metrics *PipelineMetrics) *RunContext {
	return &RunContext{
		RunID:     runID,
		Input:     input,
		Output:    output,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

type runContextKey struct{}

// WithRunContext stores a RunContext in the context.
func WithRunContext(ctx context.Context, rc *RunContext) context.Context {
	return context.WithValue(ctx, runContextKey{}, rc)
}

// RunContextFromContext retrieves the RunContext from context, or nil.
func RunContextFromContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runContextKey{}).(*RunContext); ok {
		return rc
	}
	return nil
}

// Start opens the run span and stores rc in the returned context.
func (rc *RunContext) Start(ctx context.Context, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, SpanRun)
	span.SetAttributes(
		attribute.String(AttrRunID, rc.RunID),
		attribute.String(AttrInput, rc.Input),
		attribute.String(AttrOutput, rc.Output),
	)
	span.SetAttributes(attrs...)
	return WithRunContext(ctx, rc), span
}

// ChunkDone adds a chunk event to span and records the chunk metrics.
func (rc *RunContext) ChunkDone(ctx context.Context, span trace.Span, s ChunkStats) {
	span.AddEvent(EventChunk, trace.WithAttributes(
		attribute.Int(AttrChunkSeq, s.Seq),
		attribute.Int(AttrLinesRead, s.Read),
		attribute.Int(AttrLinesWritten, s.Written),
		attribute.Int(AttrLinesDropped, s.Dropped),
		attribute.Int64(AttrBytesRead, s.Bytes),
	))
	rc.Metrics.RecordChunk(ctx, s)
}

// End ends the span and records the run metric. status is StatusOK when
// err is nil, otherwise the given errStatus (for example an error code).
func (rc *RunContext) End(ctx context.Context, span trace.Span, err error, errStatus string) {
	status := StatusOK
	if err != nil {
		status = errStatus
		if status == "" {
			status = StatusError
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, rc.Duration().Milliseconds()),
	)
	span.End()

	rc.Metrics.RecordRun(ctx, status)
}

// Duration returns the elapsed time since the run started.
func (rc *RunContext) Duration() time.Duration {
	return time.Since(rc.StartTime)
}
