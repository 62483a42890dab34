package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kbukum/demoservice/logger"
)

// SentryConfig configures fault reporting to Sentry.
type SentryConfig struct {
	DSN              string  `yaml:"dsn" mapstructure:"dsn"`
	Environment      string  `yaml:"environment" mapstructure:"environment"`
	Release          string  `yaml:"release" mapstructure:"release"`
	Debug            bool    `yaml:"debug" mapstructure:"debug"`
	SampleRate       float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	TracesSampleRate float64 `yaml:"traces_sample_rate" mapstructure:"traces_sample_rate"`
}

// Enabled reports whether a DSN is configured.
func (c SentryConfig) Enabled() bool {
	return c.DSN != ""
}

// ApplyDefaults applies default sample rates.
func (c *SentryConfig) ApplyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// InitSentry initializes the Sentry SDK. It is a no-op without a DSN.
func InitSentry(config SentryConfig) error {
	if !config.Enabled() {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              config.DSN,
		Environment:      config.Environment,
		Release:          config.Release,
		Debug:            config.Debug,
		SampleRate:       config.SampleRate,
		TracesSampleRate: config.TracesSampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("initializing sentry: %w", err)
	}

	logger.Info("Sentry initialized", logger.Fields(
		"environment", config.Environment,
		"release", config.Release,
	))
	return nil
}

// FlushSentry waits for buffered events to be delivered.
func FlushSentry(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// CaptureFault reports an unexpected fault to Sentry. It uses the hub
// attached to ctx when present, otherwise the current hub.
func CaptureFault(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
