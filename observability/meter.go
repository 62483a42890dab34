package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/demoservice/logger"
)

// Instrument names.
const (
	MetricRequests        = "http.server.requests"
	MetricRequestDuration = "http.server.request.duration"
	MetricActiveRequests  = "http.server.active_requests"
	MetricErrors          = "http.server.errors"
)

// LatencyBuckets are the histogram boundaries, in seconds, for
// MetricRequestDuration. Health and root calls sit in the low buckets.
var LatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// MeterConfig configures OTLP metric export.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP collector host:port, e.g. "localhost:4318".
	Endpoint string
	Insecure bool
	// Interval between exports. Zero keeps the SDK default of one minute.
	Interval time.Duration
}

// InitMeter installs a periodic OTLP meter provider as the process global.
// The caller owns the provider and must shut it down to flush the last
// collection.
func InitMeter(ctx context.Context, cfg MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := NewMeterProvider(sdkmetric.NewPeriodicReader(exporter, readerOpts...), sdkmetric.WithResource(res))
	otel.SetMeterProvider(mp)

	logger.Info("Meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// NewMeterProvider builds a provider on reader with the request latency
// buckets applied.
func NewMeterProvider(reader sdkmetric.Reader, opts ...sdkmetric.Option) *sdkmetric.MeterProvider {
	opts = append(opts,
		sdkmetric.WithReader(reader),
		sdkmetric.WithView(latencyView()),
	)
	return sdkmetric.NewMeterProvider(opts...)
}

func latencyView() sdkmetric.View {
	return sdkmetric.NewView(
		sdkmetric.Instrument{Name: MetricRequestDuration},
		sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
			Boundaries: LatencyBuckets,
		}},
	)
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics records HTTP traffic. A nil *Metrics records nothing.
type Metrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
	errors   metric.Int64Counter
}

// NewMetrics creates the HTTP instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.requests, err = meter.Int64Counter(MetricRequests,
		metric.WithDescription("Completed requests by method, route and status"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricRequests, err)
	}
	if m.duration, err = meter.Float64Histogram(MetricRequestDuration,
		metric.WithDescription("Request latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricRequestDuration, err)
	}
	if m.active, err = meter.Int64UpDownCounter(MetricActiveRequests,
		metric.WithDescription("Requests currently in flight"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricActiveRequests, err)
	}
	if m.errors, err = meter.Int64Counter(MetricErrors,
		metric.WithDescription("Translated error responses by error name"),
	); err != nil {
		return nil, fmt.Errorf("creating %s: %w", MetricErrors, err)
	}
	return &m, nil
}

// RecordRequestStart marks a request as in flight.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.active.Add(ctx, 1)
}

// RecordRequestEnd closes a request opened by RecordRequestStart. route
// must be a bounded label such as a route pattern.
func (m *Metrics) RecordRequestEnd(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.active.Add(ctx, -1)
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	))
	m.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
	))
}

// RecordError counts one translated error response by its wire name.
func (m *Metrics) RecordError(ctx context.Context, name string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("type", name)))
}
