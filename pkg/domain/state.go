package domain

import "time"

// BaseInterval is the autoplay interval at speed 1.
const BaseInterval = 1000 * time.Millisecond

// SpeedOptions lists the speeds offered by the player controls.
// The playback engine accepts any positive speed.
var SpeedOptions = []float64{0.5, 1, 1.5, 2}

// PlaybackStatus names the two states of the playback machine.
type PlaybackStatus string

const (
	StatusStopped PlaybackStatus = "stopped" // No timer scheduled
	StatusPlaying PlaybackStatus = "playing" // Exactly one tick pending
)

// PlaybackState is a snapshot of the cursor into a Trace.
type PlaybackState struct {
	// CurrentStep is in [0, TotalSteps) when TotalSteps > 0, and 0 otherwise.
	CurrentStep int `json:"current_step"`

	// TotalSteps is the length of the active trace.
	TotalSteps int `json:"total_steps"`

	// IsPlaying is true only while an autoplay tick is scheduled.
	IsPlaying bool `json:"is_playing"`

	// Speed multiplies the tick rate (interval = BaseInterval / Speed).
	Speed float64 `json:"speed"`

	// TraceVersion increments every time the trace is replaced, so two traces of
	// the same length never produce equal states.
	TraceVersion uint64 `json:"trace_version"`
}

// NewPlaybackState creates a stopped state for a trace of the given length.
func NewPlaybackState(totalSteps int, speed float64) PlaybackState {
	if totalSteps < 0 {
		totalSteps = 0
	}
	return PlaybackState{
		TotalSteps: totalSteps,
		Speed:      speed,
	}
}

// Status reports whether the state is Playing or Stopped.
func (s PlaybackState) Status() PlaybackStatus {
	if s.IsPlaying {
		return StatusPlaying
	}
	return StatusStopped
}

// AtStart reports whether the cursor is on the first step.
func (s PlaybackState) AtStart() bool {
	return s.CurrentStep == 0
}

// AtEnd reports whether the cursor is on the final step (or the trace is empty).
func (s PlaybackState) AtEnd() bool {
	return s.TotalSteps == 0 || s.CurrentStep >= s.TotalSteps-1
}

// Progress returns the completed fraction in [0, 1] as shown on a progress bar.
func (s PlaybackState) Progress() float64 {
	if s.TotalSteps == 0 {
		return 0
	}
	return float64(s.CurrentStep+1) / float64(s.TotalSteps)
}

// Clamp forces step into the valid cursor range for totalSteps.
func Clamp(step, totalSteps int) int {
	if totalSteps <= 0 || step < 0 {
		return 0
	}
	if step > totalSteps-1 {
		return totalSteps - 1
	}
	return step
}
