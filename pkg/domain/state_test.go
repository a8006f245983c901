package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		step, total, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{-1, 5, 0},
		{3, 5, 3},
		{5, 5, 4},
		{100, 1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clamp(tt.step, tt.total), "Clamp(%d, %d)", tt.step, tt.total)
	}
}

func TestPlaybackState_Helpers(t *testing.T) {
	s := NewPlaybackState(4, 1)
	assert.True(t, s.AtStart())
	assert.False(t, s.AtEnd())
	assert.Equal(t, StatusStopped, s.Status())
	assert.Equal(t, 0.25, s.Progress())

	s.CurrentStep = 3
	s.IsPlaying = true
	assert.True(t, s.AtEnd())
	assert.Equal(t, StatusPlaying, s.Status())

	empty := NewPlaybackState(-3, 1)
	assert.Equal(t, 0, empty.TotalSteps)
	assert.True(t, empty.AtEnd())
	assert.Equal(t, 0.0, empty.Progress())
}

func TestDiffPlayback(t *testing.T) {
	base := PlaybackState{CurrentStep: 1, TotalSteps: 5, Speed: 1}

	t.Run("Initial load", func(t *testing.T) {
		diff := DiffPlayback("s1", nil, base)
		if assert.NotNil(t, diff) {
			assert.Equal(t, "s1", diff.SessionID)
			assert.Equal(t, 1, *diff.CurrentStep)
			assert.Equal(t, 5, *diff.TotalSteps)
			assert.False(t, *diff.IsPlaying)
			assert.True(t, diff.CursorMoved())
		}
	})

	t.Run("No changes", func(t *testing.T) {
		assert.Nil(t, DiffPlayback("s1", &base, base))
	})

	t.Run("Only play mode", func(t *testing.T) {
		next := base
		next.IsPlaying = true
		diff := DiffPlayback("s1", &base, next)
		if assert.NotNil(t, diff) {
			assert.Nil(t, diff.CurrentStep)
			assert.True(t, *diff.IsPlaying)
			assert.False(t, diff.CursorMoved())
		}
	})

	t.Run("Trace replaced with same shape", func(t *testing.T) {
		next := base
		next.TraceVersion++
		diff := DiffPlayback("s1", &base, next)
		if assert.NotNil(t, diff) {
			assert.Nil(t, diff.CurrentStep)
			assert.Nil(t, diff.TotalSteps)
			assert.Equal(t, base.TraceVersion+1, *diff.TraceVersion)
			assert.True(t, diff.CursorMoved(), "a new trace shows a new step")
		}
	})

	t.Run("Cursor advance", func(t *testing.T) {
		next := base
		next.CurrentStep = 2
		diff := DiffPlayback("s1", &base, next)
		if assert.NotNil(t, diff) {
			assert.Equal(t, 2, *diff.CurrentStep)
			assert.Nil(t, diff.Speed)
		}
	})
}
