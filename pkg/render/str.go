package render

import (
	"strings"
)

// StringPatch is the caller's partial state for one character.
type StringPatch struct {
	Patch
	Matched *bool
}

// CharState extends ItemState with scan-position classifications.
type CharState struct {
	ItemState
	Char    rune `json:"char"`
	Current bool `json:"is_current"`
	Passed  bool `json:"is_passed"`
	Matched bool `json:"is_matched"`
}

// StringOptions configures the string template. CurrentIndex is the scan
// position; a negative value means no cursor.
type StringOptions struct {
	CurrentIndex int
	State        func(i int) StringPatch
	RenderChar   func(st CharState) string
	// CharColor overrides the palette colour of a character.
	CharColor func(st CharState) string
	Slots
	Styles       Styles
	EmptyMessage string
}

// CharStates computes the merged state of every character.
func CharStates(s string, current int, state func(int) StringPatch) []CharState {
	runes := []rune(s)
	states := make([]CharState, len(runes))
	for i, r := range runes {
		st := CharState{
			ItemState: ItemState{Index: i},
			Char:      r,
			Current:   current >= 0 && i == current,
			Passed:    current >= 0 && i < current,
		}
		st.Active = st.Current
		if state != nil {
			p := state(i)
			p.Patch.apply(&st.ItemState)
			if p.Matched != nil {
				st.Matched = *p.Matched
			}
		}
		states[i] = st
	}
	return states
}

// String renders characters in a row with a caret under the scan position.
func String(s string, opts StringOptions) Frame {
	styles := opts.Styles.orDefault()
	if s == "" {
		return emptyFrame(opts.Slots, opts.EmptyMessage, `""`)
	}

	states := CharStates(s, opts.CurrentIndex, opts.State)
	cells := make([]string, len(states))
	for i, st := range states {
		if opts.RenderChar != nil {
			cells[i] = opts.RenderChar(st)
			continue
		}
		cells[i] = defaultChar(styles, st, opts.CharColor)
	}

	return opts.Slots.frame(cells, func(cells []string) []string {
		lines := []string{strings.Join(cells, "")}
		if opts.CurrentIndex >= 0 && opts.CurrentIndex < len(cells) {
			lines = append(lines, strings.Repeat("   ", opts.CurrentIndex)+" ^")
		}
		return lines
	})
}

func defaultChar(styles Styles, st CharState, colorFn func(CharState) string) string {
	text := bracket(string(st.Char), st.ItemState)
	if colorFn != nil {
		if c := colorFn(st); c != "" {
			return styles.Paint(text, c, st.Current)
		}
	}
	switch {
	case st.Matched && !st.Current:
		return styles.Paint(text, styles.palette.Matched, false)
	case st.Passed && !st.Active && !st.Highlighted:
		return styles.Paint(text, styles.palette.Disabled, false)
	}
	return styles.Item(text, st.ItemState)
}
