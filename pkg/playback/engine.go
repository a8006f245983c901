package playback

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/aretw0/stepwise/internal/logging"
	"github.com/aretw0/stepwise/pkg/domain"
)

// Engine drives a cursor through a trace of known length.
//
// It is a two-state machine (Stopped, Playing). While Playing exactly one tick
// is pending on the Scheduler; every operation that cancels or replaces the
// tick bumps a generation counter under the lock, so a timer that already
// fired but has not yet acquired the lock is discarded instead of advancing
// a cursor it no longer owns.
type Engine struct {
	mu           sync.Mutex
	state        domain.PlaybackState
	baseInterval time.Duration
	scheduler    Scheduler
	timer        Timer
	generation   uint64
	closed       bool

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// New creates a stopped engine over a trace of totalSteps steps.
func New(totalSteps int, opts ...Option) *Engine {
	e := &Engine{
		state:        domain.NewPlaybackState(totalSteps, 1),
		baseInterval: domain.BaseInterval,
		scheduler:    RealScheduler{},
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a snapshot of the playback state.
func (e *Engine) State() domain.PlaybackState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Interval returns the current tick interval (BaseInterval / speed).
func (e *Engine) Interval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.intervalLocked()
}

// Load replaces the trace length. The pending tick is cancelled before the
// cursor is reset, so no tick can observe the replacement half-done.
// Speed is preserved and the trace version advances, so every Load emits a
// state change even when the new trace has the same length.
func (e *Engine) Load(totalSteps int) {
	e.mutate(func(s *domain.PlaybackState) {
		e.cancelLocked()
		next := domain.NewPlaybackState(totalSteps, s.Speed)
		next.TraceVersion = s.TraceVersion + 1
		*s = next
	})
}

// Play starts autoplay. On the final step it rewinds to the first step first.
// An empty trace is never played. Calling Play while Playing keeps the pending tick.
func (e *Engine) Play() {
	e.mutate(func(s *domain.PlaybackState) {
		if e.closed || s.TotalSteps == 0 || s.IsPlaying {
			return
		}
		if s.CurrentStep >= s.TotalSteps-1 {
			s.CurrentStep = 0
		}
		s.IsPlaying = true
		e.scheduleLocked()
	})
}

// Pause stops autoplay and cancels the pending tick. Idempotent.
func (e *Engine) Pause() {
	e.mutate(func(s *domain.PlaybackState) {
		s.IsPlaying = false
		e.cancelLocked()
	})
}

// Toggle pauses when Playing and plays when Stopped.
func (e *Engine) Toggle() {
	if e.State().IsPlaying {
		e.Pause()
		return
	}
	e.Play()
}

// StepForward moves one step towards the end, clamped. Play mode is unchanged.
func (e *Engine) StepForward() {
	e.moveTo(func(s domain.PlaybackState) int { return s.CurrentStep + 1 })
}

// StepBackward moves one step towards the start, clamped. Play mode is unchanged.
func (e *Engine) StepBackward() {
	e.moveTo(func(s domain.PlaybackState) int { return s.CurrentStep - 1 })
}

// Seek moves the cursor to step, clamped into the trace. Play mode is unchanged.
func (e *Engine) Seek(step int) {
	e.moveTo(func(domain.PlaybackState) int { return step })
}

// Reset rewinds to the first step and stops.
func (e *Engine) Reset() {
	e.mutate(func(s *domain.PlaybackState) {
		e.cancelLocked()
		s.CurrentStep = 0
		s.IsPlaying = false
	})
}

// SetSpeed changes the speed multiplier. While Playing the pending tick is
// cancelled and a single new one is scheduled at the new interval.
func (e *Engine) SetSpeed(speed float64) error {
	if !validSpeed(speed) {
		return domain.ErrInvalidSpeed
	}
	e.mutate(func(s *domain.PlaybackState) {
		if s.Speed == speed {
			return
		}
		s.Speed = speed
		if s.IsPlaying {
			e.scheduleLocked()
		}
	})
	e.logger.Debug("Playback speed changed", "speed", speed)
	return nil
}

// Close stops autoplay for good. Further Play calls are ignored.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.Pause()
}

func (e *Engine) moveTo(target func(domain.PlaybackState) int) {
	e.mutate(func(s *domain.PlaybackState) {
		next := domain.Clamp(target(*s), s.TotalSteps)
		if next == s.CurrentStep {
			return
		}
		s.CurrentStep = next
		// Restart the interval so the new step is shown for a full tick.
		if s.IsPlaying {
			e.scheduleLocked()
		}
	})
}

// tick runs on the scheduler. It ignores timers from an older generation.
func (e *Engine) tick(generation uint64) {
	e.mu.Lock()
	if generation != e.generation || !e.state.IsPlaying {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	prev := e.state

	if e.state.CurrentStep < e.state.TotalSteps-1 {
		e.state.CurrentStep++
	}
	if e.state.CurrentStep >= e.state.TotalSteps-1 {
		e.state.IsPlaying = false
		e.generation++
	} else {
		e.scheduleLocked()
	}
	next := e.state
	e.mu.Unlock()

	e.logger.Debug("Playback tick", "step", next.CurrentStep, "total", next.TotalSteps, "playing", next.IsPlaying)
	event := &domain.PlaybackEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTick},
		Previous:  prev,
		Current:   next,
	}
	if e.hooks.OnTick != nil {
		e.hooks.OnTick(context.Background(), event)
	}
	e.emitChange(prev, next)
}

// mutate applies fn under the lock and emits a change event when the state differs.
func (e *Engine) mutate(fn func(s *domain.PlaybackState)) {
	e.mu.Lock()
	prev := e.state
	fn(&e.state)
	next := e.state
	e.mu.Unlock()

	e.emitChange(prev, next)
}

func (e *Engine) emitChange(prev, next domain.PlaybackState) {
	if prev == next || e.hooks.OnStateChange == nil {
		return
	}
	e.hooks.OnStateChange(context.Background(), &domain.PlaybackEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStateChange},
		Previous:  prev,
		Current:   next,
	})
}

// scheduleLocked replaces any pending tick with a fresh one. Caller holds mu.
func (e *Engine) scheduleLocked() {
	e.cancelLocked()
	generation := e.generation
	e.timer = e.scheduler.AfterFunc(e.intervalLocked(), func() {
		e.tick(generation)
	})
}

// cancelLocked stops the pending tick and invalidates in-flight callbacks. Caller holds mu.
func (e *Engine) cancelLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.generation++
}

func (e *Engine) intervalLocked() time.Duration {
	return time.Duration(float64(e.baseInterval) / e.state.Speed)
}

func validSpeed(speed float64) bool {
	return speed > 0 && !math.IsInf(speed, 0) && !math.IsNaN(speed)
}
