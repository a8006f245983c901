package playback

import (
	"log/slog"
	"time"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithScheduler replaces the real-time scheduler (e.g. with a ManualScheduler).
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		e.scheduler = s
	}
}

// WithBaseInterval sets the tick interval at speed 1 (default: domain.BaseInterval).
func WithBaseInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.baseInterval = d
		}
	}
}

// WithSpeed sets the initial speed. Invalid values are ignored.
func WithSpeed(speed float64) Option {
	return func(e *Engine) {
		if validSpeed(speed) {
			e.state.Speed = speed
		}
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}
