package render

import (
	"fmt"
	"strconv"
	"strings"
)

// ArrayOptions configures the array template.
type ArrayOptions[T any] struct {
	// State returns the caller's partial state for element i.
	State func(i int) Patch
	// RenderItem replaces the default cell rendering.
	RenderItem func(item T, st ItemState) string
	Slots
	Styles       Styles
	ShowIndices  bool
	EmptyMessage string
}

// ArrayStates computes the merged state of every element.
func ArrayStates[T any](items []T, state func(int) Patch) []ItemState {
	states := make([]ItemState, len(items))
	for i := range items {
		states[i] = ItemState{Index: i}
		if state != nil {
			state(i).apply(&states[i])
		}
	}
	return states
}

// Array renders a horizontal row of cells.
func Array[T any](items []T, opts ArrayOptions[T]) Frame {
	styles := opts.Styles.orDefault()
	if len(items) == 0 {
		return emptyFrame(opts.Slots, opts.EmptyMessage, "(empty array)")
	}

	states := ArrayStates(items, opts.State)
	cells := make([]string, len(items))
	for i, item := range items {
		if opts.RenderItem != nil {
			cells[i] = opts.RenderItem(item, states[i])
			continue
		}
		cells[i] = styles.Item(bracket(fmt.Sprint(item), states[i]), states[i])
	}

	return opts.Slots.frame(cells, func(cells []string) []string {
		return gridRow(cells, opts.ShowIndices)
	})
}

// bracket marks state in plain text so it survives colourless terminals.
func bracket(text string, st ItemState) string {
	switch {
	case st.Active:
		return "[" + text + "]"
	case st.Highlighted:
		return "(" + text + ")"
	}
	return " " + text + " "
}

// gridRow lays cells out in equal-width columns, optionally with an index row.
func gridRow(cells []string, indices bool) []string {
	width := 0
	for _, c := range cells {
		if w := visibleWidth(c); w > width {
			width = w
		}
	}
	top := make([]string, len(cells))
	bottom := make([]string, len(cells))
	for i, c := range cells {
		top[i] = center(c, width)
		bottom[i] = center(strconv.Itoa(i), width)
	}
	lines := []string{strings.TrimRight(strings.Join(top, " "), " ")}
	if indices {
		lines = append(lines, strings.TrimRight(strings.Join(bottom, " "), " "))
	}
	return lines
}

func emptyFrame(slots Slots, msg, fallback string) Frame {
	if msg == "" {
		msg = fallback
	}
	f := Frame{Body: []string{msg}}
	if slots.Header != nil {
		f.Header = slots.Header()
	}
	if slots.Footer != nil {
		f.Footer = slots.Footer()
	}
	return f
}
