package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback. Hooks of a stage run in registration order
// and the first error ends the stage.
type Hook func(ctx context.Context) error

type stage int

const (
	stageStart stage = iota // components started, not yet ready
	stageReady              // ready check done
	stageStop               // shutting down, components still running
	stageCount
)

func (s stage) String() string {
	return [...]string{"start", "ready", "stop"}[s]
}

type hooks [stageCount][]Hook

func (h *hooks) run(ctx context.Context, s stage) error {
	for i, fn := range h[s] {
		if err := fn(ctx); err != nil {
			return fmt.Errorf("%s hook #%d: %w", s, i+1, err)
		}
	}
	return nil
}

// OnStart adds hooks that run after every component has started.
func (a *App[C]) OnStart(fns ...Hook) { a.hooks[stageStart] = append(a.hooks[stageStart], fns...) }

// OnReady adds hooks that run once the ready check has been logged.
func (a *App[C]) OnReady(fns ...Hook) { a.hooks[stageReady] = append(a.hooks[stageReady], fns...) }

// OnStop adds hooks that run at shutdown before components stop.
func (a *App[C]) OnStop(fns ...Hook) { a.hooks[stageStop] = append(a.hooks[stageStop], fns...) }
