package driver

import (
	"log/slog"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
)

type options struct {
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	speed      float64
	engineOpts []playback.Option
}

// Option defines a functional option for configuring a Driver.
type Option func(*options)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
// Hooks may run while the driver holds its lock and must not call back into it.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = o.hooks.Merge(hooks)
	}
}

// WithSpeed sets the initial playback speed.
func WithSpeed(speed float64) Option {
	return func(o *options) {
		o.speed = speed
	}
}

// WithEngineOptions forwards options to the playback engine (e.g. a scheduler).
func WithEngineOptions(opts ...playback.Option) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}
