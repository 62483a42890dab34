package bootstrap

import (
	"time"

	"github.com/kbukum/demoservice/logger"
)

const (
	defaultGracefulTimeout = 15 * time.Second
)

// Option adjusts how NewApp builds the App. Options do not depend on the
// config type.
type Option func(*settings)

type settings struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
	stopTimeout     time.Duration
}

func newSettings(opts []Option) settings {
	s := settings{gracefulTimeout: defaultGracefulTimeout}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger uses l instead of building a logger from the config's log
// settings. The global logger is left alone.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithGracefulTimeout bounds the whole of Shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) { s.gracefulTimeout = d }
}

// WithStopTimeout bounds each component's Stop within Shutdown. Zero keeps
// component.DefaultStopTimeout.
func WithStopTimeout(d time.Duration) Option {
	return func(s *settings) { s.stopTimeout = d }
}
