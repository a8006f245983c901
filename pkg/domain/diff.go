package domain

// PlaybackDiff represents the changes between two playback states.
// It is designed to be serialized to JSON for partial updates on the client.
type PlaybackDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentStep  *int     `json:"current_step,omitempty"`
	TotalSteps   *int     `json:"total_steps,omitempty"`
	IsPlaying    *bool    `json:"is_playing,omitempty"`
	Speed        *float64 `json:"speed,omitempty"`
	TraceVersion *uint64  `json:"trace_version,omitempty"`

	// Step carries the newly visible step whenever the cursor or trace changed.
	Step *Step `json:"step,omitempty"`
}

// DiffPlayback calculates the difference between old and next.
// If old is nil, it returns a diff representing the entire next state (initial load).
// It returns nil when nothing changed.
func DiffPlayback(sessionID string, old *PlaybackState, next PlaybackState) *PlaybackDiff {
	diff := &PlaybackDiff{SessionID: sessionID}

	if old == nil || old.CurrentStep != next.CurrentStep {
		diff.CurrentStep = &next.CurrentStep
	}
	if old == nil || old.TotalSteps != next.TotalSteps {
		diff.TotalSteps = &next.TotalSteps
	}
	if old == nil || old.IsPlaying != next.IsPlaying {
		diff.IsPlaying = &next.IsPlaying
	}
	if old == nil || old.Speed != next.Speed {
		diff.Speed = &next.Speed
	}
	if old == nil || old.TraceVersion != next.TraceVersion {
		diff.TraceVersion = &next.TraceVersion
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *PlaybackDiff) IsEmpty() bool {
	return d.CurrentStep == nil &&
		d.TotalSteps == nil &&
		d.IsPlaying == nil &&
		d.Speed == nil &&
		d.TraceVersion == nil
}

// CursorMoved reports whether the visible step may have changed.
// A replaced trace counts even when the cursor tuple is the same.
func (d *PlaybackDiff) CursorMoved() bool {
	return d.CurrentStep != nil || d.TotalSteps != nil || d.TraceVersion != nil
}
