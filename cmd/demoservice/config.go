package main

import (
	"time"

	"github.com/kbukum/demoservice/config"
	"github.com/kbukum/demoservice/observability"
	"github.com/kbukum/demoservice/server"
	"github.com/kbukum/demoservice/validation"
)

// TelemetryConfig configures OTLP export of traces and metrics. Export is
// off while Endpoint is empty.
type TelemetryConfig struct {
	Endpoint       string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	MetricInterval int     `yaml:"metric_interval" mapstructure:"metric_interval"` // seconds
}

// Enabled reports whether an OTLP endpoint is configured.
func (c TelemetryConfig) Enabled() bool {
	return c.Endpoint != ""
}

// Config is the demoservice configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HTTP      server.Config              `yaml:"http" mapstructure:"http"`
	Telemetry TelemetryConfig            `yaml:"telemetry" mapstructure:"telemetry"`
	Sentry    observability.SentryConfig `yaml:"sentry" mapstructure:"sentry"`
}

// ApplyDefaults fills unset values of every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.HTTP.ApplyDefaults()

	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
	if c.Telemetry.MetricInterval == 0 {
		c.Telemetry.MetricInterval = 15
	}

	c.Sentry.ApplyDefaults()
	if c.Sentry.Environment == "" {
		c.Sentry.Environment = c.Environment
	}
	if c.Sentry.Release == "" {
		c.Sentry.Release = c.AppVersion
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	return validation.New().
		Fraction("telemetry.sample_rate", c.Telemetry.SampleRate).
		Min("telemetry.metric_interval", c.Telemetry.MetricInterval, 1).
		Fraction("sentry.sample_rate", c.Sentry.SampleRate).
		Validate()
}

func (c *Config) tracerConfig() observability.TracerConfig {
	return observability.TracerConfig{
		ServiceName:    c.AppName,
		ServiceVersion: c.AppVersion,
		Environment:    c.Environment,
		Endpoint:       c.Telemetry.Endpoint,
		Insecure:       c.Telemetry.Insecure,
		SampleRate:     c.Telemetry.SampleRate,
	}
}

func (c *Config) meterConfig() observability.MeterConfig {
	return observability.MeterConfig{
		ServiceName:    c.AppName,
		ServiceVersion: c.AppVersion,
		Environment:    c.Environment,
		Endpoint:       c.Telemetry.Endpoint,
		Insecure:       c.Telemetry.Insecure,
		Interval:       time.Duration(c.Telemetry.MetricInterval) * time.Second,
	}
}
