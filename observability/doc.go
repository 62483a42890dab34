// Package observability provides OpenTelemetry tracing and metrics, and
// Sentry fault reporting.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.TracerConfig{ServiceName: "demoservice", Endpoint: "localhost:4318"})
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartServerSpan(r)
//	observability.FinishServerSpan(span, r.Method, "/health", 200, requestID)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.MeterConfig{Endpoint: "localhost:4318"})
//	metrics, err := observability.NewMetrics(observability.Meter("demoservice"))
//	metrics.RecordRequestEnd(ctx, "GET", "/health", 200, duration)
//
// Faults:
//
//	observability.InitSentry(observability.SentryConfig{DSN: dsn})
//	observability.CaptureFault(ctx, err)
package observability
