// Package reverselist traces the iterative in-place reversal of a singly
// linked list (LeetCode 206). The list is modelled as a node array whose
// next fields hold indices.
package reverselist

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/render"
)

const ID = "reverse-linked-list"

// Input is the editable problem input.
type Input struct {
	Values []int `json:"values" yaml:"values" mapstructure:"values"`
}

// State is the per-step data: the node array and the three walking pointers.
type State struct {
	Nodes    []render.ListNode `json:"nodes"`
	Prev     *int              `json:"prev_index"`
	Curr     *int              `json:"curr_index"`
	Next     *int              `json:"next_index"`
	Complete bool              `json:"is_complete"`
}

var Fields = []domain.InputField{
	{Key: "values", Label: "List values", Type: domain.FieldArray, Placeholder: "1,2,3,4,5", Lenient: true},
}

var TestCases = []domain.TestCase[Input]{
	{Label: "Five nodes", Value: Input{Values: []int{1, 2, 3, 4, 5}}},
	{Label: "Two nodes", Value: Input{Values: []int{1, 2}}},
	{Label: "Single node", Value: Input{Values: []int{7}}},
	{Label: "Empty list", Value: Input{Values: []int{}}},
}

// Config binds the adapter to the driver.
func Config() driver.Config[Input] {
	return driver.Config[Input]{
		Problem:      ID,
		Generate:     Generate,
		DefaultInput: TestCases[0].Value,
		Fields:       Fields,
		TestCases:    TestCases,
	}
}

// Generate records each pointer move of the reversal. Every step carries its
// own copy of the node array.
func Generate(in Input) domain.Trace {
	nodes := make([]render.ListNode, len(in.Values))
	for i, v := range in.Values {
		nodes[i] = render.ListNode{Val: v}
		if i+1 < len(in.Values) {
			nodes[i].Next = ptr(i + 1)
		}
	}

	var prev, next *int
	var curr *int
	if len(nodes) > 0 {
		curr = ptr(0)
	}

	snap := func(desc string, complete bool, lines ...int) domain.Step {
		st := State{
			Nodes:    cloneNodes(nodes),
			Prev:     clonePtr(prev),
			Curr:     clonePtr(curr),
			Next:     clonePtr(next),
			Complete: complete,
		}
		return domain.Step{
			Description: desc,
			Data:        st,
			Variables: domain.Variables{
				"prev":     deref(prev),
				"curr":     deref(curr),
				"next":     deref(next),
				"complete": complete,
			},
			CodeRef: domain.Lines(lines...),
		}
	}

	if len(nodes) == 0 {
		return domain.Trace{snap("The list is empty, nothing to reverse", true, 10)}
	}

	trace := domain.Trace{snap("Start with prev = null and curr at the head", false, 2, 3)}
	for curr != nil {
		c := *curr
		next = clonePtr(nodes[c].Next)
		trace = append(trace, snap(fmt.Sprintf("Save next = %s", label(nodes, next)), false, 5))

		nodes[c].Next = clonePtr(prev)
		trace = append(trace, snap(fmt.Sprintf("Point node %d back to %s", nodes[c].Val, label(nodes, prev)), false, 6))

		prev = ptr(c)
		curr = next
		trace = append(trace, snap(fmt.Sprintf("Advance: prev = %s, curr = %s", label(nodes, prev), label(nodes, curr)), false, 7, 8))
	}
	next = nil
	return append(trace, snap(fmt.Sprintf("Done: the new head is %s", label(nodes, prev)), true, 10))
}

func label(nodes []render.ListNode, i *int) string {
	if i == nil {
		return "null"
	}
	return fmt.Sprintf("node %d", nodes[*i].Val)
}

func cloneNodes(nodes []render.ListNode) []render.ListNode {
	out := make([]render.ListNode, len(nodes))
	for i, n := range nodes {
		out[i] = render.ListNode{Val: n.Val, Next: clonePtr(n.Next)}
	}
	return out
}

func ptr(i int) *int { return &i }

func clonePtr(p *int) *int {
	if p == nil {
		return nil
	}
	return ptr(*p)
}

// deref keeps nil as nil so the variable reads as absent.
func deref(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
