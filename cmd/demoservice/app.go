package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kbukum/demoservice/bootstrap"
	"github.com/kbukum/demoservice/component"
	apperrors "github.com/kbukum/demoservice/errors"
	"github.com/kbukum/demoservice/logger"
	"github.com/kbukum/demoservice/observability"
	"github.com/kbukum/demoservice/server"
	"github.com/kbukum/demoservice/server/endpoint"
	"github.com/kbukum/demoservice/version"
)

const (
	serviceName        = "demoservice"
	sentryFlushTimeout = 2 * time.Second
)

// newApp wires the service: fault reporting, telemetry, the error
// translator and the HTTP server, in start order.
func newApp(ctx context.Context, cfg *Config, opts ...bootstrap.Option) (*bootstrap.App[*Config], *server.Server, error) {
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	app.Logger.Debug("Build info", map[string]interface{}{
		"version": version.Describe(cfg.AppVersion),
	})

	if cfg.Sentry.Enabled() {
		if err := observability.InitSentry(cfg.Sentry); err != nil {
			return nil, nil, err
		}
		if err := app.RegisterComponent(&component.Func{
			ComponentName: "sentry",
			StopFunc: func(context.Context) error {
				if !observability.FlushSentry(sentryFlushTimeout) {
					return errors.New("sentry flush timed out")
				}
				return nil
			},
		}); err != nil {
			return nil, nil, err
		}
	}

	var metrics *observability.Metrics
	if cfg.Telemetry.Enabled() {
		metrics, err = initTelemetry(ctx, app)
		if err != nil {
			return nil, nil, err
		}
	}

	translator := apperrors.NewTranslator(cfg.Debug, app.Logger)
	translator.Metrics = metrics
	translator.OnFault = observability.CaptureFault

	srv := server.New(cfg.HTTP, app.Logger,
		server.WithDebug(cfg.Debug),
		server.WithTranslator(translator),
		server.WithMetrics(metrics),
	)
	info := endpoint.ServiceInfo{
		Name:        cfg.AppName,
		Version:     cfg.AppVersion,
		Description: cfg.AppDescription,
		Environment: cfg.Environment,
	}
	if err := srv.RegisterDefaultEndpoints(info, app.HealthProbe()); err != nil {
		return nil, nil, err
	}
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return nil, nil, err
	}
	app.OnReady(func(context.Context) error {
		app.Logger.Info("Serving", logger.Fields(
			"addr", srv.Addr(),
			"docs", "http://"+srv.Addr()+endpoint.DocsURL,
		))
		return nil
	})
	return app, srv, nil
}

// initTelemetry starts the OTLP tracer and meter providers and registers a
// component that flushes them on shutdown.
func initTelemetry(ctx context.Context, app *bootstrap.App[*Config]) (*observability.Metrics, error) {
	tp, err := observability.InitTracer(ctx, app.Cfg.tracerConfig())
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	mp, err := observability.InitMeter(ctx, app.Cfg.meterConfig())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init meter: %w", err), tp.Shutdown(ctx))
	}
	metrics, err := observability.NewMetrics(observability.Meter(serviceName))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create instruments: %w", err), tp.Shutdown(ctx), mp.Shutdown(ctx))
	}

	err = app.RegisterComponent(&component.Func{
		ComponentName: "telemetry",
		StopFunc: func(ctx context.Context) error {
			return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
		},
	})
	return metrics, err
}
