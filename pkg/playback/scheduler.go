package playback

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call stopped
	// the timer (false if it already fired or was stopped).
	Stop() bool
}

// Scheduler is the delayed-task primitive driving autoplay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules callbacks on the runtime timer heap.
type RealScheduler struct{}

// AfterFunc wraps time.AfterFunc.
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler is a virtual clock. Timers only fire when the owner calls
// Advance or FireNext, synchronously on the caller's goroutine.
// Used for headless rendering and deterministic tests.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	s   *ManualScheduler
	at  time.Duration
	seq int
	fn  func()
}

// NewManualScheduler creates a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc registers f to run once the virtual clock passes now+d.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, fn: f}
	s.pending = append(s.pending, t)
	return t
}

// Stop removes the timer if it is still pending.
func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i, p := range t.s.pending {
		if p == t {
			t.s.pending = append(t.s.pending[:i], t.s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Now returns the virtual time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of live timers.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// NextDelay returns how long until the earliest pending timer is due.
func (s *ManualScheduler) NextDelay() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.earliestLocked()
	if next == nil {
		return 0, false
	}
	return next.at - s.now, true
}

// FireNext jumps the clock to the earliest pending timer and runs it.
// It returns false when nothing is pending.
func (s *ManualScheduler) FireNext() bool {
	s.mu.Lock()
	next := s.earliestLocked()
	if next == nil {
		s.mu.Unlock()
		return false
	}
	s.removeLocked(next)
	if next.at > s.now {
		s.now = next.at
	}
	s.mu.Unlock()

	next.fn()
	return true
}

// Advance moves the clock forward by d, running every timer that becomes due,
// including timers scheduled by callbacks fired during the advance.
// It returns the number of callbacks run.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	deadline := s.now + d
	s.mu.Unlock()

	fired := 0
	for {
		s.mu.Lock()
		next := s.earliestLocked()
		if next == nil || next.at > deadline {
			s.now = deadline
			s.mu.Unlock()
			return fired
		}
		s.removeLocked(next)
		s.now = next.at
		s.mu.Unlock()

		next.fn()
		fired++
	}
}

func (s *ManualScheduler) earliestLocked() *manualTimer {
	if len(s.pending) == 0 {
		return nil
	}
	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].at == s.pending[j].at {
			return s.pending[i].seq < s.pending[j].seq
		}
		return s.pending[i].at < s.pending[j].at
	})
	return s.pending[0]
}

func (s *ManualScheduler) removeLocked(t *manualTimer) {
	for i, p := range s.pending {
		if p == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}
