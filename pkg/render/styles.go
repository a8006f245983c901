package render

import (
	"github.com/muesli/termenv"
)

// Palette names the colours templates use for element states.
type Palette struct {
	Active      string
	Highlighted string
	Disabled    string
	Reversed    string
	Matched     string
	Pointer     string
}

// DefaultPalette paints active items blue and highlighted items amber.
var DefaultPalette = Palette{
	Active:      "#3B82F6",
	Highlighted: "#F59E0B",
	Disabled:    "#6B7280",
	Reversed:    "#10B981",
	Matched:     "#10B981",
	Pointer:     "#A855F7",
}

// Styles paints text for a terminal colour profile.
type Styles struct {
	profile termenv.Profile
	palette Palette
}

// NewStyles builds styles for the given profile and palette.
func NewStyles(profile termenv.Profile, palette Palette) Styles {
	return Styles{profile: profile, palette: palette}
}

// DefaultStyles detects the colour profile from the environment.
func DefaultStyles() Styles {
	return NewStyles(termenv.EnvColorProfile(), DefaultPalette)
}

// PlainStyles never emits escape sequences.
func PlainStyles() Styles {
	return NewStyles(termenv.Ascii, DefaultPalette)
}

// Paint colours text with a palette entry. Empty colours leave text unchanged.
func (s Styles) Paint(text, color string, bold bool) string {
	if s.profile == termenv.Ascii || (color == "" && !bold) {
		return text
	}
	style := s.profile.String(text)
	if color != "" {
		style = style.Foreground(s.profile.Color(color))
	}
	if bold {
		style = style.Bold()
	}
	return style.String()
}

// Item paints an element according to its common state.
func (s Styles) Item(text string, st ItemState) string {
	switch {
	case st.Disabled:
		return s.Paint(text, s.palette.Disabled, false)
	case st.Active:
		return s.Paint(text, s.palette.Active, true)
	case st.Highlighted:
		return s.Paint(text, s.palette.Highlighted, true)
	}
	return text
}

// Palette returns the colours in use.
func (s Styles) Palette() Palette { return s.palette }

func (s Styles) orDefault() Styles {
	if s.palette == (Palette{}) {
		return DefaultStyles()
	}
	return s
}
