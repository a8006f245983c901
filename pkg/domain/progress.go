package domain

import (
	"encoding/json"
	"math"
	"slices"
	"sort"
)

// IDSet is a set of problem identifiers.
// It serializes as a sorted JSON array and rehydrates from any JSON array.
type IDSet map[int]struct{}

// NewIDSet creates a set holding ids.
func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id.
func (s IDSet) Add(id int) { s[id] = struct{}{} }

// Remove deletes id.
func (s IDSet) Remove(id int) { delete(s, id) }

// Slice returns the members in ascending order.
func (s IDSet) Slice() []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// MarshalJSON writes the set as an array.
func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// UnmarshalJSON reads an array (or null) into the set.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Settings is the flat user preferences record.
type Settings struct {
	DefaultSpeed      float64 `json:"defaultSpeed"`
	AutoPlay          bool    `json:"autoPlay"`
	ShowCodeByDefault bool    `json:"showCodeByDefault"`
	Theme             Theme   `json:"theme"`
}

// DefaultSettings returns the settings of a fresh profile.
func DefaultSettings() Settings {
	return Settings{
		DefaultSpeed: 1,
		Theme:        ThemeLight,
	}
}

// SettingsPatch carries a partial settings update. Nil fields are left untouched.
type SettingsPatch struct {
	DefaultSpeed      *float64 `json:"defaultSpeed,omitempty"`
	AutoPlay          *bool    `json:"autoPlay,omitempty"`
	ShowCodeByDefault *bool    `json:"showCodeByDefault,omitempty"`
	Theme             *Theme   `json:"theme,omitempty"`
}

// Apply merges the patch into s.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.DefaultSpeed != nil {
		s.DefaultSpeed = *p.DefaultSpeed
	}
	if p.AutoPlay != nil {
		s.AutoPlay = *p.AutoPlay
	}
	if p.ShowCodeByDefault != nil {
		s.ShowCodeByDefault = *p.ShowCodeByDefault
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	return s
}

// Progress is the persisted learner record: three problem sets plus settings.
type Progress struct {
	Completed  IDSet    `json:"completedProblems"`
	InProgress IDSet    `json:"inProgressProblems"`
	Favorite   IDSet    `json:"favoriteProblems"`
	Settings   Settings `json:"settings"`
}

// NewProgress creates an empty record with default settings.
func NewProgress() *Progress {
	return &Progress{
		Completed:  NewIDSet(),
		InProgress: NewIDSet(),
		Favorite:   NewIDSet(),
		Settings:   DefaultSettings(),
	}
}

// Clone returns a deep copy.
func (p *Progress) Clone() *Progress {
	return &Progress{
		Completed:  p.Completed.Clone(),
		InProgress: p.InProgress.Clone(),
		Favorite:   p.Favorite.Clone(),
		Settings:   p.Settings,
	}
}

// Normalize replaces nil sets with empty ones after decoding partial records.
func (p *Progress) Normalize() {
	if p.Completed == nil {
		p.Completed = NewIDSet()
	}
	if p.InProgress == nil {
		p.InProgress = NewIDSet()
	}
	if p.Favorite == nil {
		p.Favorite = NewIDSet()
	}
}

// Equal reports whether two records hold the same sets and settings.
func (p *Progress) Equal(other *Progress) bool {
	return slices.Equal(p.Completed.Slice(), other.Completed.Slice()) &&
		slices.Equal(p.InProgress.Slice(), other.InProgress.Slice()) &&
		slices.Equal(p.Favorite.Slice(), other.Favorite.Slice()) &&
		p.Settings == other.Settings
}

// ProgressStats summarises a record against a problem total.
type ProgressStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"inProgress"`
	Favorite       int     `json:"favorite"`
	CompletionRate float64 `json:"completionRate"`
}

// Stats computes the summary; the completion rate is a percentage rounded to 2 decimals.
func (p *Progress) Stats(total int) ProgressStats {
	stats := ProgressStats{
		Total:      total,
		Completed:  len(p.Completed),
		InProgress: len(p.InProgress),
		Favorite:   len(p.Favorite),
	}
	if total > 0 {
		rate := float64(stats.Completed) / float64(total) * 100
		stats.CompletionRate = math.Round(rate*100) / 100
	}
	return stats
}
