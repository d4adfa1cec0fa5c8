// Package observability provides OpenTelemetry tracing and metrics for
// pipeline runs.
//
// Both providers are off unless Config.Enabled is set; until then the global
// no-op providers absorb every span and measurement.
//
//	shutdown, err := observability.Setup(ctx, cfg.Telemetry, "textpipe", version.Short(), "production")
//	defer shutdown(context.Background())
//
//	metrics, err := observability.NewMetrics(observability.Meter("textpipe"))
//	run := observability.NewRun("textpipe", runID, metrics)
//	ctx, span := run.Start(ctx, observability.SpanPipelineRun)
//	text := observability.Count(decoded, metrics, "decode")
//	...
//	run.End(ctx, span, err)
package observability
