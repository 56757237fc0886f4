package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/linepar/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) *MeterConfig {
	return &MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Instrument names.
const (
	MetricLinesRead     = "linepar.lines.read"
	MetricLinesWritten  = "linepar.lines.written"
	MetricLinesDropped  = "linepar.lines.dropped"
	MetricBytesRead     = "linepar.bytes.read"
	MetricChunks        = "linepar.chunks"
	MetricChunkDuration = "linepar.chunk.duration"
	MetricRuns          = "linepar.runs"
)

// ChunkStats describes one processed chunk.
type ChunkStats struct {
	Seq      int
	Read     int
	Written  int
	Dropped  int
	Bytes    int64
	Duration time.Duration
}

// PipelineMetrics holds the instruments recorded by pipeline runs. A nil
// *PipelineMetrics records nothing.
type PipelineMetrics struct {
	linesRead     metric.Int64Counter
	linesWritten  metric.Int64Counter
	linesDropped  metric.Int64Counter
	bytesRead     metric.Int64Counter
	chunks        metric.Int64Counter
	chunkDuration metric.Float64Histogram
	runs          metric.Int64Counter
}

// NewPipelineMetrics creates metric instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	linesRead, err := meter.Int64Counter(MetricLinesRead,
		metric.WithDescription("Input lines handed to the worker pool"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricLinesRead, err)
	}

	linesWritten, err := meter.Int64Counter(MetricLinesWritten,
		metric.WithDescription("Transformed lines written to the sink"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricLinesWritten, err)
	}

	linesDropped, err := meter.Int64Counter(MetricLinesDropped,
		metric.WithDescription("Lines the transform asked to drop"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricLinesDropped, err)
	}

	bytesRead, err := meter.Int64Counter(MetricBytesRead,
		metric.WithDescription("Raw input bytes consumed, terminators included"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricBytesRead, err)
	}

	chunks, err := meter.Int64Counter(MetricChunks,
		metric.WithDescription("Chunks processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricChunks, err)
	}

	chunkDuration, err := meter.Float64Histogram(MetricChunkDuration,
		metric.WithDescription("Time to transform and write one chunk"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricChunkDuration, err)
	}

	runs, err := meter.Int64Counter(MetricRuns,
		metric.WithDescription("Completed pipeline runs by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRuns, err)
	}

	return &PipelineMetrics{
		linesRead:     linesRead,
		linesWritten:  linesWritten,
		linesDropped:  linesDropped,
		bytesRead:     bytesRead,
		chunks:        chunks,
		chunkDuration: chunkDuration,
		runs:          runs,
	}, nil
}

// RecordChunk records the counters for one processed chunk.
func (m *PipelineMetrics) RecordChunk(ctx context.Context, s ChunkStats) {
	if m == nil {
		return
	}
	m.linesRead.Add(ctx, int64(s.Read))
	m.linesWritten.Add(ctx, int64(s.Written))
	m.linesDropped.Add(ctx, int64(s.Dropped))
	m.bytesRead.Add(ctx, s.Bytes)
	m.chunks.Add(ctx, 1)
	m.chunkDuration.Record(ctx, s.Duration.Seconds())
}

// RecordRun records a finished run with its status ("ok" or an error code).
func (m *PipelineMetrics) RecordRun(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrStatus, status)))
}
