package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component represents a lifecycle-managed part of the service, such as the
// HTTP server or a telemetry exporter.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Func adapts a pair of start/stop functions into a Component that is
// healthy once started. Either function may be nil.
type Func struct {
	ComponentName string
	StartFunc     func(ctx context.Context) error
	StopFunc      func(ctx context.Context) error

	started bool
}

var _ Component = (*Func)(nil)

// Name returns the component name.
func (f *Func) Name() string { return f.ComponentName }

// Start calls StartFunc.
func (f *Func) Start(ctx context.Context) error {
	if f.StartFunc != nil {
		if err := f.StartFunc(ctx); err != nil {
			return err
		}
	}
	f.started = true
	return nil
}

// Stop calls StopFunc.
func (f *Func) Stop(ctx context.Context) error {
	f.started = false
	if f.StopFunc == nil {
		return nil
	}
	return f.StopFunc(ctx)
}

// Health reports healthy after a successful Start.
func (f *Func) Health(context.Context) Health {
	if !f.started {
		return Health{Name: f.ComponentName, Status: StatusUnhealthy, Message: "not started"}
	}
	return Health{Name: f.ComponentName, Status: StatusHealthy}
}
