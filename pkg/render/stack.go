package render

import (
	"fmt"
	"strings"
)

// StackAction marks the operation that touched an element on this step.
type StackAction string

const (
	ActionNone StackAction = ""
	ActionPush StackAction = "push"
	ActionPop  StackAction = "pop"
)

// StackPatch is the caller's partial state for a stack element.
type StackPatch struct {
	Patch
	Action StackAction
}

// StackItemState extends ItemState with stack classifications.
type StackItemState struct {
	ItemState
	Top    bool        `json:"is_top"`
	Action StackAction `json:"action,omitempty"`
}

// StackOptions configures the stack template. Items are ordered bottom to top.
type StackOptions[T any] struct {
	State      func(i int) StackPatch
	RenderItem func(item T, st StackItemState) string
	Slots
	Styles           Styles
	EmptyMessage     string
	ShowBottomMarker bool
	ShowSize         bool
}

// StackStates computes the merged state of every element. The top element
// is active unless the caller overrides it.
func StackStates[T any](items []T, state func(int) StackPatch) []StackItemState {
	states := make([]StackItemState, len(items))
	for i := range items {
		st := StackItemState{ItemState: ItemState{Index: i}, Top: i == len(items)-1}
		st.Active = st.Top
		if state != nil {
			p := state(i)
			p.Patch.apply(&st.ItemState)
			st.Action = p.Action
		}
		states[i] = st
	}
	return states
}

// Stack renders the stack vertically, top first.
func Stack[T any](items []T, opts StackOptions[T]) Frame {
	styles := opts.Styles.orDefault()
	if len(items) == 0 {
		f := emptyFrame(opts.Slots, opts.EmptyMessage, "(empty stack)")
		if opts.ShowSize {
			f.Body = append(f.Body, "size: 0")
		}
		return f
	}

	states := StackStates(items, opts.State)
	cells := make([]string, len(items))
	for i, item := range items {
		if opts.RenderItem != nil {
			cells[i] = opts.RenderItem(item, states[i])
			continue
		}
		cells[i] = defaultStackItem(styles, fmt.Sprint(item), states[i])
	}

	f := opts.Slots.frame(cells, func(cells []string) []string {
		width := 0
		for _, c := range cells {
			width = max(width, visibleWidth(c))
		}
		lines := make([]string, 0, len(cells)+1)
		for i := len(cells) - 1; i >= 0; i-- {
			lines = append(lines, "│ "+pad(cells[i], width)+" │")
		}
		if opts.ShowBottomMarker {
			lines = append(lines, "└"+strings.Repeat("─", width+2)+"┘")
		}
		return lines
	})
	if opts.ShowSize {
		f.Body = append(f.Body, fmt.Sprintf("size: %d", len(items)))
	}
	return f
}

func defaultStackItem(styles Styles, text string, st StackItemState) string {
	text = bracket(text, st.ItemState)
	switch st.Action {
	case ActionPush:
		text += " +"
	case ActionPop:
		text += " -"
	}
	if st.Top {
		text += " ← top"
	}
	return styles.Item(text, st.ItemState)
}
