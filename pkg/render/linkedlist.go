package render

import (
	"fmt"
	"strings"
)

// ListNode is one node of an array-backed linked list. Next is nil at the tail.
type ListNode struct {
	Val  int  `json:"val" yaml:"val" mapstructure:"val"`
	Next *int `json:"next" yaml:"next" mapstructure:"next"`
}

// Pointer is a named reference into the node array (prev, curr, slow, ...).
// A nil Index points nowhere.
type Pointer struct {
	Name  string
	Index *int
	Color string
	Label string
}

// At reports whether the pointer targets node i.
func (p Pointer) At(i int) bool {
	return p.Index != nil && *p.Index == i
}

// NodeState extends ItemState with linked-list classifications.
type NodeState struct {
	ItemState
	ActivePointers []string `json:"active_pointers,omitempty"`
	// Reversed is set when the node's next points to a smaller index.
	Reversed bool `json:"is_reversed"`
}

// LinkedListOptions configures the linked-list template.
type LinkedListOptions struct {
	State      func(i int) Patch
	Pointers   []Pointer
	RenderNode func(n ListNode, st NodeState) string
	Slots
	Styles       Styles
	EmptyMessage string
}

// NodeStates computes the merged state of every node. A node is active when
// any pointer targets it; the caller's patch is applied last.
func NodeStates(nodes []ListNode, pointers []Pointer, state func(int) Patch) []NodeState {
	states := make([]NodeState, len(nodes))
	for i, n := range nodes {
		st := NodeState{ItemState: ItemState{Index: i}}
		for _, p := range pointers {
			if p.At(i) {
				st.ActivePointers = append(st.ActivePointers, p.Name)
			}
		}
		st.Active = len(st.ActivePointers) > 0
		st.Reversed = n.Next != nil && *n.Next < i
		if state != nil {
			state(i).apply(&st.ItemState)
		}
		states[i] = st
	}
	return states
}

// LinkedList renders nodes in array order with their next edges and the
// pointer labels underneath.
func LinkedList(nodes []ListNode, opts LinkedListOptions) Frame {
	styles := opts.Styles.orDefault()
	if len(nodes) == 0 {
		return emptyFrame(opts.Slots, opts.EmptyMessage, "(empty list)")
	}

	states := NodeStates(nodes, opts.Pointers, opts.State)
	cells := make([]string, len(nodes))
	for i, n := range nodes {
		if opts.RenderNode != nil {
			cells[i] = opts.RenderNode(n, states[i])
			continue
		}
		cells[i] = defaultNode(styles, n, states[i])
	}

	labels := pointerLabels(styles, len(nodes), opts.Pointers)
	return opts.Slots.frame(cells, func(cells []string) []string {
		top := make([]string, len(cells))
		bottom := make([]string, len(cells))
		for i, c := range cells {
			width := max(visibleWidth(c), visibleWidth(labels[i]))
			top[i] = pad(c, width)
			bottom[i] = pad(labels[i], width)
		}
		lines := []string{strings.TrimRight(strings.Join(top, "  "), " ")}
		if row := strings.TrimRight(strings.Join(bottom, "  "), " "); row != "" {
			lines = append(lines, row)
		}
		return lines
	})
}

func defaultNode(styles Styles, n ListNode, st NodeState) string {
	box := bracket(fmt.Sprint(n.Val), st.ItemState)
	switch {
	case st.Active || st.Highlighted || st.Disabled:
		box = styles.Item(box, st.ItemState)
	case st.Reversed:
		box = styles.Paint(box, styles.palette.Reversed, false)
	}
	return box + edge(st.Index, n.Next)
}

// edge draws the next reference relative to the node position.
func edge(i int, next *int) string {
	switch {
	case next == nil:
		return "→∅"
	case *next == i+1:
		return "→"
	case *next == i-1:
		return "←"
	case *next < i:
		return fmt.Sprintf("←%d", *next)
	default:
		return fmt.Sprintf("→%d", *next)
	}
}

func pointerLabels(styles Styles, n int, pointers []Pointer) []string {
	labels := make([]string, n)
	for i := range labels {
		var names []string
		for _, p := range pointers {
			if !p.At(i) {
				continue
			}
			name := p.Label
			if name == "" {
				name = p.Name
			}
			color := p.Color
			if color == "" {
				color = styles.palette.Pointer
			}
			names = append(names, styles.Paint(name, color, false))
		}
		if len(names) > 0 {
			labels[i] = "^" + strings.Join(names, ",")
		}
	}
	return labels
}
