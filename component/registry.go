package component

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "github.com/kbukum/demoservice/errors"
	"github.com/kbukum/demoservice/logger"
)

// DefaultStopTimeout bounds each component's Stop call.
const DefaultStopTimeout = 10 * time.Second

// Registry owns the service's components. They start in registration order
// and stop in reverse; only components that started are stopped.
type Registry struct {
	// StopTimeout bounds each Stop call. Zero means DefaultStopTimeout.
	StopTimeout time.Duration

	log *logger.Logger

	mu         sync.Mutex
	components []Component
	running    []bool
}

// NewRegistry returns an empty registry logging to log, or to the global
// logger when log is nil.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{log: log}
}

func (r *Registry) logger() *logger.Logger {
	if r.log != nil {
		return r.log
	}
	return logger.GetGlobalLogger()
}

// Register appends c. Names must be unique.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(c.Name()) >= 0 {
		return fmt.Errorf("component %s already registered", c.Name())
	}
	r.components = append(r.components, c)
	r.running = append(r.running, false)

	r.logger().Debug("Component registered", logger.Fields(logger.FieldComponent, c.Name()))
	return nil
}

// StartAll starts every component that is not yet running and stops at the
// first failure. Components started before the failure stay running until
// StopAll.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log := r.logger()
	for i, c := range r.components {
		if r.running[i] {
			continue
		}
		if err := c.Start(ctx); err != nil {
			log.Error("Component start failed", logger.Fields(
				logger.FieldComponent, c.Name(),
				logger.FieldError, err.Error(),
			))
			return fmt.Errorf("failed to start %s: %w", c.Name(), err)
		}
		r.running[i] = true
		log.Debug("Component started", logger.Fields(logger.FieldComponent, c.Name()))
	}
	log.Info("Components started", logger.Fields("count", len(r.components)))
	return nil
}

// StopAll stops running components in reverse order, each within
// StopTimeout, and returns every stop error joined.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	timeout := r.StopTimeout
	if timeout <= 0 {
		timeout = DefaultStopTimeout
	}

	log := r.logger()
	var errs []error
	for i := len(r.components) - 1; i >= 0; i-- {
		if !r.running[i] {
			continue
		}
		c := r.components[i]
		stopCtx, cancel := context.WithTimeout(ctx, timeout)
		err := c.Stop(stopCtx)
		cancel()
		r.running[i] = false

		if err != nil {
			log.Error("Component stop failed", logger.Fields(
				logger.FieldComponent, c.Name(),
				logger.FieldError, err.Error(),
			))
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", c.Name(), err))
			continue
		}
		log.Debug("Component stopped", logger.Fields(logger.FieldComponent, c.Name()))
	}
	return errors.Join(errs...)
}

// HealthAll asks every component for its health concurrently and returns
// the answers in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	components := r.All()
	results := make([]Health, len(components))

	var wg sync.WaitGroup
	for i, c := range components {
		wg.Go(func() { results[i] = c.Health(ctx) })
	}
	wg.Wait()
	return results
}

// CheckHealth returns a ServiceUnavailable error naming every unhealthy
// component, or nil. Degraded components pass. It has the shape of a
// health probe.
func (r *Registry) CheckHealth(ctx context.Context) error {
	var failing []string
	for _, h := range r.HealthAll(ctx) {
		switch {
		case h.Status != StatusUnhealthy:
		case h.Message != "":
			failing = append(failing, h.Name+": "+h.Message)
		default:
			failing = append(failing, h.Name)
		}
	}
	if len(failing) == 0 {
		return nil
	}
	return apperrors.ServiceUnavailable("").
		WithDetail("Unhealthy components: " + strings.Join(failing, "; "))
}

// Get returns the component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(name); i >= 0 {
		return r.components[i]
	}
	return nil
}

// All returns the registered components in registration order.
func (r *Registry) All() []Component {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Component(nil), r.components...)
}

func (r *Registry) indexOf(name string) int {
	for i, c := range r.components {
		if c.Name() == name {
			return i
		}
	}
	return -1
}
