package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/problems/reverselist"
	"github.com/aretw0/stepwise/pkg/render"
)

// ErrUnsupported is returned for steps whose data is not a linked list.
var ErrUnsupported = errors.New("step data cannot be drawn as a graph")

// GenerateMermaid produces a Mermaid flowchart for a linked-list snapshot.
// It applies semantic styling:
// - Node: [Rectangle] labelled with its value
// - Null terminator: ((Circle))
// - Forward edge: solid arrow; reversed edge (pointing at a lower index): dotted arrow
// Nodes targeted by pointers get the pointer names in their label and the
// "pointer" class; the node under "curr" gets the "current" class.
func GenerateMermaid(nodes []render.ListNode, pointers []render.Pointer) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	usesNull := false
	for i, node := range nodes {
		label := fmt.Sprintf("%d", node.Val)
		if names := pointerNames(pointers, i); len(names) > 0 {
			label = fmt.Sprintf("%d <br/> %s", node.Val, strings.Join(names, ", "))
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", nodeID(i), label))

		switch {
		case node.Next == nil:
			usesNull = true
			sb.WriteString(fmt.Sprintf("    %s --> null\n", nodeID(i)))
		case *node.Next < i:
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", nodeID(i), nodeID(*node.Next)))
		default:
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", nodeID(i), nodeID(*node.Next)))
		}
	}
	if usesNull {
		sb.WriteString("    null((\"∅\"))\n")
	}

	sb.WriteString("\n    %% Pointer Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
	sb.WriteString("    classDef pointer fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

	styled := make(map[int]bool)
	for _, p := range pointers {
		if p.Index == nil || *p.Index < 0 || *p.Index >= len(nodes) || styled[*p.Index] {
			continue
		}
		class := "pointer"
		if p.Name == "curr" {
			class = "current"
		}
		styled[*p.Index] = true
		sb.WriteString(fmt.Sprintf("    class %s %s;\n", nodeID(*p.Index), class))
	}

	return sb.String()
}

// FromView draws the step of a linked-list problem.
func FromView(v driver.View) (string, error) {
	st, ok := v.Data.(reverselist.State)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, v.Problem)
	}
	return GenerateMermaid(st.Nodes, st.Pointers(render.DefaultPalette)), nil
}

func pointerNames(pointers []render.Pointer, i int) []string {
	var names []string
	for _, p := range pointers {
		if p.At(i) {
			names = append(names, p.Name)
		}
	}
	return names
}

func nodeID(i int) string {
	return fmt.Sprintf("n%d", i)
}
