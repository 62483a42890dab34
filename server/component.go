package server

import (
	"context"
	"sync/atomic"

	"github.com/kbukum/demoservice/component"
)

const componentName = "http-server"

var _ component.Component = (*ServerComponent)(nil)

// ServerComponent wraps Server to implement component.Component.
type ServerComponent struct {
	server  *Server
	running atomic.Bool
}

// NewComponent returns a component.Component backed by the given Server.
func NewComponent(s *Server) *ServerComponent {
	return &ServerComponent{server: s}
}

// Name returns the component name used for registration.
func (sc *ServerComponent) Name() string { return componentName }

// Start starts the underlying HTTP server. The component reports healthy
// before the first connection can be accepted, so /health never observes
// its own server as down.
func (sc *ServerComponent) Start(ctx context.Context) error {
	sc.running.Store(true)
	if err := sc.server.Start(ctx); err != nil {
		sc.running.Store(false)
		return err
	}
	return nil
}

// Stop gracefully shuts down the underlying HTTP server.
func (sc *ServerComponent) Stop(ctx context.Context) error {
	sc.running.Store(false)
	return sc.server.Stop(ctx)
}

// Health reports the server healthy while it is serving.
func (sc *ServerComponent) Health(ctx context.Context) component.Health {
	if sc.running.Load() {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "HTTP server not running",
	}
}
