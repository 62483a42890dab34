package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/demoservice/component"
	"github.com/kbukum/demoservice/config"
	"github.com/kbukum/demoservice/logger"
)

// Config is what App needs from a service's config type. Embedding
// config.ServiceConfig provides GetServiceConfig; the embedding struct
// usually overrides ApplyDefaults and Validate to cover its own sections.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}

// App owns a service's lifecycle: components start in registration order,
// hooks run around the ready check, and Shutdown reverses it all.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(server.NewComponent(srv))
//	app.OnReady(announce)
//	err = app.Run(ctx)
type App[C Config] struct {
	Name        string
	Version     string
	Environment string
	Cfg         C
	Components  *component.Registry
	Logger      *logger.Logger

	gracefulTimeout time.Duration
	hooks           hooks
}

// NewApp applies defaults to cfg, validates it and sets up logging. Unless
// WithLogger is given, the logger built from cfg becomes the global logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	s := newSettings(opts)

	log := s.logger
	if log == nil {
		lc := base.LoggingConfig()
		log = logger.New(&lc, base.AppName)
		logger.SetGlobalLogger(log)
	}

	registry := component.NewRegistry(log.WithComponent("registry"))
	registry.StopTimeout = s.stopTimeout

	return &App[C]{
		Name:            base.AppName,
		Version:         base.AppVersion,
		Environment:     base.Environment,
		Cfg:             cfg,
		Components:      registry,
		Logger:          log,
		gracefulTimeout: s.gracefulTimeout,
	}, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// HealthProbe returns the registry's aggregated health check, for use as
// the /health probe.
func (a *App[C]) HealthProbe() func(ctx context.Context) error {
	return a.Components.CheckHealth
}

// Run executes the full lifecycle for a long-running service:
// start components, OnStart hooks, ready check, OnReady hooks, block until
// a signal or ctx is done, then OnStop hooks and graceful shutdown.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		// Release whatever did start.
		return errors.Join(err, a.Shutdown(context.Background()))
	}

	a.WaitForSignal(ctx)
	return a.Shutdown(context.Background())
}

// Start logs the startup lines and brings the application to ready.
func (a *App[C]) Start(ctx context.Context) error {
	a.Logger.Info(fmt.Sprintf("Starting %s v%s", a.Name, a.Version))
	a.Logger.Info("Environment: " + a.Environment)

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := a.hooks.run(ctx, stageStart); err != nil {
		return err
	}

	if err := a.Components.CheckHealth(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.ErrorFields("ready_check", err))
	}

	if err := a.hooks.run(ctx, stageReady); err != nil {
		return err
	}
	a.Logger.Info("Application ready")
	return nil
}

// WaitForSignal blocks until SIGINT/SIGTERM or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		return nil
	}
}

// Shutdown runs the OnStop hooks and stops all components in reverse order
// within the graceful timeout.
func (a *App[C]) Shutdown(ctx context.Context) error {
	a.Logger.Info("Shutting down " + a.Name)

	ctx, cancel := context.WithTimeout(ctx, a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := a.hooks.run(ctx, stageStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("on_stop", err))
		errs = append(errs, err)
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("stop_components", err))
		errs = append(errs, err)
	}

	a.Logger.Info("Application shutdown complete")
	return errors.Join(errs...)
}
