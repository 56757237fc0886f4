// Package observability wires OpenTelemetry tracing and metrics into
// pipeline runs.
//
// Exporters are only installed when a telemetry endpoint is configured;
// otherwise the global no-op providers stay in place and every instrument
// call is free.
//
//	shutdown, err := observability.Setup(ctx, &cfg.Telemetry, version.Short())
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewPipelineMetrics(observability.Meter(observability.InstrumentationName))
//	rc := observability.NewRunContext(runID, "in.txt.gz", "out.txt", metrics)
//	ctx, span := rc.Start(ctx)
//	rc.ChunkDone(ctx, span, observability.ChunkStats{Seq: 1, Read: 1000, Written: 998})
//	rc.End(ctx, span, err, "")
package observability
