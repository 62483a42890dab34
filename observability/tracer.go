package observability

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/demoservice/logger"
)

const instrumentationName = "github.com/kbukum/demoservice/server"

// Span and resource attribute keys.
const (
	AttrHTTPMethod  = attribute.Key("http.request.method")
	AttrHTTPRoute   = attribute.Key("http.route")
	AttrHTTPStatus  = attribute.Key("http.response.status_code")
	AttrRequestID   = attribute.Key("request.id")
	AttrEnvironment = attribute.Key("deployment.environment")
)

// TracerConfig configures OTLP trace export.
type TracerConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP collector host:port, e.g. "localhost:4318".
	Endpoint string
	Insecure bool
	// SampleRate is the fraction of new traces kept. Traces started
	// upstream keep the caller's decision.
	SampleRate float64
}

// InitTracer installs a batching OTLP tracer provider and the W3C trace
// context and baggage propagators as the process globals. The caller owns
// the provider and must shut it down to flush pending spans.
func InitTracer(ctx context.Context, cfg TracerConfig) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracer initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
	))
	return tp, nil
}

func sampler(rate float64) sdktrace.Sampler {
	root := sdktrace.TraceIDRatioBased(rate)
	switch {
	case rate >= 1:
		root = sdktrace.AlwaysSample()
	case rate <= 0:
		root = sdktrace.NeverSample()
	}
	return sdktrace.ParentBased(root)
}

func newResource(serviceName, serviceVersion, environment string) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
		AttrEnvironment.String(environment),
	), nil
}

// StartServerSpan continues the trace carried in r's headers, if any, and
// starts a server span for it. The span is named after the method alone
// until FinishServerSpan learns the route.
func StartServerSpan(r *http.Request) (context.Context, trace.Span) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return otel.Tracer(instrumentationName).Start(ctx, r.Method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(AttrHTTPMethod.String(r.Method)),
	)
}

// FinishServerSpan records the outcome on span and ends it. route may be
// empty when no route pattern is known; 5xx statuses mark the span failed.
func FinishServerSpan(span trace.Span, method, route string, status int, requestID string) {
	if route != "" {
		span.SetName(method + " " + route)
		span.SetAttributes(AttrHTTPRoute.String(route))
	}
	span.SetAttributes(AttrHTTPStatus.Int(status))
	if requestID != "" {
		span.SetAttributes(AttrRequestID.String(requestID))
	}
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
	}
	span.End()
}
