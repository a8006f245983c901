package driver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/input"
	"github.com/aretw0/stepwise/pkg/playback"
)

// Config binds an algorithm adapter to its default input and input form.
type Config[I any] struct {
	// Problem identifies the adapter in logs and metrics.
	Problem string

	Generate     domain.Generator[I]
	DefaultInput I
	Fields       []domain.InputField
	TestCases    []domain.TestCase[I]
}

// Driver owns one trace and the playback engine walking it.
//
// SetInput is the only path that changes the trace: it regenerates, then
// swaps the trace and reloads the engine under the driver lock, so readers
// never see a trace paired with a cursor from another trace. Every reload
// advances the trace version, so subscribers hear about each replacement.
//
// Input edits are serialized: ApplyValues merges onto the input left by the
// previous edit, never onto a stale copy.
type Driver[I any] struct {
	cfg Config[I]

	// editMu is held from reading the base input until the new trace is installed.
	editMu sync.Mutex

	mu    sync.RWMutex
	input I
	trace domain.Trace
	err   error

	engine *playback.Engine
	subs   *fanout
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// New creates a driver and generates the trace for the default input.
func New[I any](cfg Config[I], opts ...Option) *Driver[I] {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	d := &Driver[I]{
		cfg:    cfg,
		subs:   newFanout(),
		hooks:  o.hooks,
		logger: o.logger.With("problem", cfg.Problem),
	}

	engineHooks := domain.LifecycleHooks{
		OnTick: o.hooks.OnTick,
		OnStateChange: func(ctx context.Context, e *domain.PlaybackEvent) {
			d.subs.publish(e.Current)
			if o.hooks.OnStateChange != nil {
				o.hooks.OnStateChange(ctx, e)
			}
		},
	}
	engineOpts := []playback.Option{
		playback.WithLogger(d.logger),
		playback.WithLifecycleHooks(engineHooks),
	}
	if o.speed > 0 {
		engineOpts = append(engineOpts, playback.WithSpeed(o.speed))
	}
	engineOpts = append(engineOpts, o.engineOpts...)
	d.engine = playback.New(0, engineOpts...)

	d.SetInput(cfg.DefaultInput)
	return d
}

// SetInput replaces the active input, regenerates the trace and resets playback
// to the first step, stopped. Adapter failures leave an empty trace behind.
func (d *Driver[I]) SetInput(in I) {
	d.editMu.Lock()
	defer d.editMu.Unlock()
	d.setInput(in)
}

func (d *Driver[I]) setInput(in I) {
	trace, err := d.generate(in)

	d.mu.Lock()
	d.engine.Load(len(trace))
	d.input = in
	d.trace = trace
	d.err = err
	d.mu.Unlock()

	event := &domain.TraceEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTraceGenerated},
		Problem:   d.cfg.Problem,
		Steps:     len(trace),
		Err:       err,
	}
	if err != nil {
		d.logger.Warn("Trace generation failed", "error", err)
		event.Type = domain.EventAdapterFailed
		if d.hooks.OnAdapterFailure != nil {
			d.hooks.OnAdapterFailure(context.Background(), event)
		}
		return
	}
	d.logger.Debug("Trace generated", "steps", len(trace))
	if d.hooks.OnTraceGenerated != nil {
		d.hooks.OnTraceGenerated(context.Background(), event)
	}
}

func (d *Driver[I]) generate(in I) (trace domain.Trace, err error) {
	if d.cfg.Generate == nil {
		return nil, fmt.Errorf("%w: no generator configured", domain.ErrAdapterFailed)
	}
	defer func() {
		if r := recover(); r != nil {
			trace = nil
			err = fmt.Errorf("%w: %v", domain.ErrAdapterFailed, r)
		}
	}()

	trace = d.cfg.Generate(in)
	if len(trace) == 0 {
		return nil, domain.ErrEmptyTrace
	}
	return trace, nil
}

// ApplyValues parses edited form text over the current input and regenerates.
// Malformed fields keep their current values and are returned as rejected.
func (d *Driver[I]) ApplyValues(values map[string]string) ([]string, error) {
	d.editMu.Lock()
	defer d.editMu.Unlock()

	next, rejected, err := input.Apply(d.cfg.Fields, values, d.Input())
	if err != nil {
		return rejected, err
	}
	d.setInput(next)
	return rejected, nil
}

// ApplyTestCase regenerates the trace from the preset at index i.
func (d *Driver[I]) ApplyTestCase(i int) error {
	if i < 0 || i >= len(d.cfg.TestCases) {
		return fmt.Errorf("%w: %d", domain.ErrTestCaseNotFound, i)
	}
	d.SetInput(d.cfg.TestCases[i].Value)
	return nil
}

// ProblemID returns the adapter identifier.
func (d *Driver[I]) ProblemID() string { return d.cfg.Problem }

// Input returns the active input.
func (d *Driver[I]) Input() I {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.input
}

// InputValues returns the active input rendered as edit-field text.
func (d *Driver[I]) InputValues() map[string]string {
	return input.Values(d.cfg.Fields, d.Input())
}

// Fields returns the input form declaration.
func (d *Driver[I]) Fields() []domain.InputField { return d.cfg.Fields }

// TestCaseLabels returns the labels of the presets, in order.
func (d *Driver[I]) TestCaseLabels() []string {
	labels := make([]string, len(d.cfg.TestCases))
	for i, tc := range d.cfg.TestCases {
		labels[i] = tc.Label
	}
	return labels
}

// Trace returns the active trace. Callers must treat it as read-only.
func (d *Driver[I]) Trace() domain.Trace {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.trace
}

// Err returns the failure recorded by the last generation, if any.
func (d *Driver[I]) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

// State returns the playback state.
func (d *Driver[I]) State() domain.PlaybackState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.engine.State()
}

// CurrentStep returns the step under the cursor, or false for an empty trace.
func (d *Driver[I]) CurrentStep() (domain.Step, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.trace.At(d.engine.State().CurrentStep)
}

// View returns a consistent projection of the current step and playback state.
func (d *Driver[I]) View() View {
	d.mu.RLock()
	state := d.engine.State()
	step, ok := d.trace.At(state.CurrentStep)
	err := d.err
	d.mu.RUnlock()

	v := View{
		Problem:  d.cfg.Problem,
		Playback: state,
		Controls: d,
	}
	if ok {
		v.Step = &step
		v.Data = step.Data
		v.Variables = step.Variables
	}
	if err != nil {
		v.Error = err.Error()
	}
	return v
}

// GetVariable returns a variable of the current step, or the default.
func (d *Driver[I]) GetVariable(name string, def ...any) any {
	return d.View().GetVariable(name, def...)
}

// GetBooleanVariable returns the truthiness of a variable of the current step.
func (d *Driver[I]) GetBooleanVariable(name string) bool {
	return d.View().GetBooleanVariable(name)
}

// GetNumberVariable returns a numeric variable of the current step.
func (d *Driver[I]) GetNumberVariable(name string) (float64, bool) {
	return d.View().GetNumberVariable(name)
}

// GetArrayVariable returns a slice variable of the current step.
func (d *Driver[I]) GetArrayVariable(name string) ([]any, bool) {
	return d.View().GetArrayVariable(name)
}

// Subscribe returns a channel receiving the latest playback state after every
// change. Slow readers only miss intermediate states. Call cancel to release it.
func (d *Driver[I]) Subscribe() (<-chan domain.PlaybackState, func()) {
	return d.subs.subscribe()
}

// Play starts autoplay.
func (d *Driver[I]) Play() { d.engine.Play() }

// Pause stops autoplay.
func (d *Driver[I]) Pause() { d.engine.Pause() }

// Toggle switches between playing and paused.
func (d *Driver[I]) Toggle() { d.engine.Toggle() }

// StepForward advances one step.
func (d *Driver[I]) StepForward() { d.engine.StepForward() }

// StepBackward rewinds one step.
func (d *Driver[I]) StepBackward() { d.engine.StepBackward() }

// Reset rewinds to the first step and stops.
func (d *Driver[I]) Reset() { d.engine.Reset() }

// Seek moves the cursor to step.
func (d *Driver[I]) Seek(step int) { d.engine.Seek(step) }

// SetSpeed changes the playback speed.
func (d *Driver[I]) SetSpeed(speed float64) error { return d.engine.SetSpeed(speed) }

// Close stops playback and releases subscribers.
func (d *Driver[I]) Close() {
	d.engine.Close()
	d.subs.close()
}
