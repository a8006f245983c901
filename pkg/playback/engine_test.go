package playback_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManual(total int, opts ...playback.Option) (*playback.Engine, *playback.ManualScheduler) {
	sched := playback.NewManualScheduler()
	opts = append([]playback.Option{playback.WithScheduler(sched)}, opts...)
	return playback.New(total, opts...), sched
}

func TestEngine_InitialState(t *testing.T) {
	e, sched := newManual(5)
	s := e.State()
	assert.Equal(t, 0, s.CurrentStep)
	assert.Equal(t, 5, s.TotalSteps)
	assert.False(t, s.IsPlaying)
	assert.Equal(t, 1.0, s.Speed)
	assert.Equal(t, 0, sched.Pending())
	assert.Equal(t, time.Second, e.Interval())
}

func TestEngine_PlayToCompletion(t *testing.T) {
	// Scenario: five steps at speed 1 halt on the last step after four ticks.
	e, sched := newManual(5)
	e.Play()
	require.True(t, e.State().IsPlaying)

	for i := 1; i <= 4; i++ {
		require.True(t, sched.FireNext(), "tick %d should be pending", i)
		assert.Equal(t, i, e.State().CurrentStep)
	}

	s := e.State()
	assert.Equal(t, 4, s.CurrentStep)
	assert.False(t, s.IsPlaying)
	assert.Equal(t, 0, sched.Pending(), "no tick is scheduled past the boundary")
}

func TestEngine_PlayToCompletion_AnyLength(t *testing.T) {
	for n := 1; n <= 12; n++ {
		e, sched := newManual(n)
		e.Play()
		sched.Advance(time.Duration(n+1) * time.Second)

		s := e.State()
		assert.False(t, s.IsPlaying, "n=%d", n)
		assert.Equal(t, n-1, s.CurrentStep, "n=%d", n)
	}
}

func TestEngine_SingleStepTrace(t *testing.T) {
	e, sched := newManual(1)
	e.Play()
	assert.True(t, e.State().IsPlaying, "engine enters Playing")
	require.True(t, sched.FireNext())
	assert.False(t, e.State().IsPlaying, "first tick detects the boundary")
	assert.Equal(t, 0, e.State().CurrentStep)
}

func TestEngine_EmptyTraceIsNoOp(t *testing.T) {
	e, sched := newManual(0)
	e.Play()
	e.StepForward()
	e.StepBackward()
	e.Seek(3)
	e.Reset()
	require.NoError(t, e.SetSpeed(2))

	s := e.State()
	assert.Equal(t, 0, s.CurrentStep)
	assert.False(t, s.IsPlaying)
	assert.Equal(t, 0, sched.Pending())
}

func TestEngine_ReplayFromEnd(t *testing.T) {
	e, sched := newManual(3)
	e.Seek(2)
	e.Play()
	assert.Equal(t, 0, e.State().CurrentStep, "play on the final step rewinds")

	var seen []int
	for sched.FireNext() {
		seen = append(seen, e.State().CurrentStep)
	}
	assert.Equal(t, []int{1, 2}, seen)
	assert.False(t, e.State().IsPlaying)
}

func TestEngine_BoundaryClamping(t *testing.T) {
	for _, n := range []int{1, 2, 7} {
		for start := 0; start < n; start++ {
			e, _ := newManual(n)
			e.Seek(start)
			for i := 0; i < n+3; i++ {
				e.StepForward()
				assert.Less(t, e.State().CurrentStep, n)
			}
			assert.Equal(t, n-1, e.State().CurrentStep)
			for i := 0; i < n+3; i++ {
				e.StepBackward()
				assert.GreaterOrEqual(t, e.State().CurrentStep, 0)
			}
			assert.Equal(t, 0, e.State().CurrentStep)
		}
	}
}

func TestEngine_SteppingKeepsPlayMode(t *testing.T) {
	e, sched := newManual(10)
	e.Play()
	e.StepForward()
	assert.True(t, e.State().IsPlaying)
	assert.Equal(t, 1, e.State().CurrentStep)
	assert.Equal(t, 1, sched.Pending())

	e.Pause()
	e.StepForward()
	assert.False(t, e.State().IsPlaying)
	assert.Equal(t, 0, sched.Pending())
}

func TestEngine_Reset(t *testing.T) {
	e, sched := newManual(6)
	e.Play()
	sched.FireNext()
	sched.FireNext()
	e.Reset()

	s := e.State()
	assert.Equal(t, 0, s.CurrentStep)
	assert.False(t, s.IsPlaying)
	assert.Equal(t, 0, sched.Pending())
}

func TestEngine_SetSpeedWhilePlaying(t *testing.T) {
	// Scenario: doubling the speed at step 2 of 10 reschedules exactly one tick at half the interval.
	e, sched := newManual(10)
	e.Play()
	sched.FireNext()
	sched.FireNext()
	require.Equal(t, 2, e.State().CurrentStep)

	require.NoError(t, e.SetSpeed(2))
	assert.Equal(t, 1, sched.Pending())
	delay, ok := sched.NextDelay()
	require.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, delay)

	assert.Equal(t, 0, sched.Advance(499*time.Millisecond))
	assert.Equal(t, 2, e.State().CurrentStep, "no step skipped during the transition")

	assert.Equal(t, 1, sched.Advance(time.Millisecond))
	assert.Equal(t, 3, e.State().CurrentStep, "no step double-counted")
	assert.Equal(t, 1, sched.Pending())
}

func TestEngine_SetSpeedRejectsInvalid(t *testing.T) {
	e, _ := newManual(3)
	for _, s := range []float64{0, -1} {
		assert.ErrorIs(t, e.SetSpeed(s), domain.ErrInvalidSpeed)
	}
	assert.Equal(t, 1.0, e.State().Speed)

	require.NoError(t, e.SetSpeed(0.25))
	assert.Equal(t, 4*time.Second, e.Interval())
}

func TestEngine_SingleTimerInvariant(t *testing.T) {
	e, sched := newManual(50)
	ops := []func(){
		e.Play,
		func() { _ = e.SetSpeed(2) },
		e.Play,
		func() { _ = e.SetSpeed(1.5) },
		e.Pause,
		e.Play,
		e.StepForward,
		func() { _ = e.SetSpeed(0.5) },
		e.Play,
		func() { e.Seek(10) },
	}
	for _, op := range ops {
		op()
		assert.LessOrEqual(t, sched.Pending(), 1)
		if e.State().IsPlaying {
			assert.Equal(t, 1, sched.Pending())
		}
	}

	before := e.State().CurrentStep
	sched.Advance(e.Interval())
	assert.Equal(t, before+1, e.State().CurrentStep, "one interval advances exactly one step")
}

func TestEngine_LoadCancelsPendingTick(t *testing.T) {
	e, sched := newManual(5)
	_ = e.SetSpeed(2)
	e.Play()
	sched.FireNext()

	e.Load(3)
	s := e.State()
	assert.Equal(t, 0, s.CurrentStep)
	assert.Equal(t, 3, s.TotalSteps)
	assert.False(t, s.IsPlaying)
	assert.Equal(t, 2.0, s.Speed, "speed survives trace replacement")
	assert.Equal(t, 0, sched.Pending())
}

// leakyScheduler never cancels: it models a timer that already fired and is
// waiting for the engine lock when the tick gets cancelled.
type leakyScheduler struct {
	mu  sync.Mutex
	fns []func()
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (s *leakyScheduler) AfterFunc(_ time.Duration, f func()) playback.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, f)
	return leakyTimer{}
}

func TestEngine_StaleTickIsIgnored(t *testing.T) {
	sched := &leakyScheduler{}
	e := playback.New(5, playback.WithScheduler(sched))

	e.Play()
	e.Pause()
	e.Play()
	require.Len(t, sched.fns, 2)

	sched.fns[0]()
	assert.Equal(t, 0, e.State().CurrentStep, "the cancelled tick must not advance")

	sched.fns[1]()
	assert.Equal(t, 1, e.State().CurrentStep)

	e.Load(8)
	sched.fns[2]()
	assert.Equal(t, 0, e.State().CurrentStep, "ticks never cross a trace replacement")
}

func TestEngine_Hooks(t *testing.T) {
	var ticks, changes atomic.Int32
	hooks := domain.LifecycleHooks{
		OnTick: func(_ context.Context, e *domain.PlaybackEvent) {
			ticks.Add(1)
			assert.Equal(t, domain.EventTick, e.Type)
		},
		OnStateChange: func(_ context.Context, e *domain.PlaybackEvent) {
			changes.Add(1)
			assert.NotEqual(t, e.Previous, e.Current)
		},
	}
	e, sched := newManual(3, playback.WithLifecycleHooks(hooks))
	e.Play()
	for sched.FireNext() {
	}
	e.Pause()

	assert.Equal(t, int32(2), ticks.Load())
	// play, tick, tick (which also stops); the final Pause changes nothing.
	assert.Equal(t, int32(3), changes.Load())
}

func TestEngine_CloseIgnoresPlay(t *testing.T) {
	e, sched := newManual(4)
	e.Play()
	e.Close()
	e.Play()
	assert.False(t, e.State().IsPlaying)
	assert.Equal(t, 0, sched.Pending())
}

func TestEngine_RealScheduler(t *testing.T) {
	e := playback.New(4, playback.WithBaseInterval(5*time.Millisecond))
	defer e.Close()
	e.Play()

	assert.Eventually(t, func() bool {
		s := e.State()
		return !s.IsPlaying && s.CurrentStep == 3
	}, time.Second, 5*time.Millisecond)
}

func TestEngine_ConcurrentControl(t *testing.T) {
	e := playback.New(100, playback.WithBaseInterval(time.Millisecond))
	defer e.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch (i + j) % 5 {
				case 0:
					e.Play()
				case 1:
					e.Pause()
				case 2:
					e.StepForward()
				case 3:
					_ = e.SetSpeed(float64(j%4 + 1))
				case 4:
					e.StepBackward()
				}
				s := e.State()
				assert.GreaterOrEqual(t, s.CurrentStep, 0)
				assert.Less(t, s.CurrentStep, 100)
			}
		}(i)
	}
	wg.Wait()
}
