// Package validparens traces the stack-based bracket matcher of LeetCode 20.
package validparens

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/render"
)

const ID = "valid-parentheses"

// Input is the editable problem input.
type Input struct {
	S string `json:"s" yaml:"s" mapstructure:"s"`
}

// State is the per-step data: the scanned string, the scan position and the
// stack contents bottom to top.
type State struct {
	S       string             `json:"s"`
	Index   int                `json:"index"`
	Stack   []string           `json:"stack"`
	Action  render.StackAction `json:"action,omitempty"`
	Matched []int              `json:"matched,omitempty"`
}

var Fields = []domain.InputField{
	{Key: "s", Label: "Brackets s", Type: domain.FieldString, Placeholder: "()[]{}"},
}

var TestCases = []domain.TestCase[Input]{
	{Label: "Example 1", Value: Input{S: "()"}},
	{Label: "Example 2", Value: Input{S: "()[]{}"}},
	{Label: "Example 3", Value: Input{S: "(]"}},
	{Label: "Nested", Value: Input{S: "([{}])"}},
	{Label: "Unclosed", Value: Input{S: "(("}},
}

var pairs = map[rune]rune{')': '(', ']': '[', '}': '{'}

// Config binds the adapter to the driver.
func Config() driver.Config[Input] {
	return driver.Config[Input]{
		Problem:      ID,
		Generate:     Generate,
		DefaultInput: TestCases[3].Value,
		Fields:       Fields,
		TestCases:    TestCases,
	}
}

// Generate records every push, pop and mismatch while scanning the string.
func Generate(in Input) domain.Trace {
	runes := []rune(in.S)
	var stack []string
	var openAt []int
	var matched []int

	snap := func(desc string, i int, action render.StackAction, extra domain.Variables, lines ...int) domain.Step {
		vars := domain.Variables{
			"i":     i,
			"stack": append([]string{}, stack...),
		}
		if i >= 0 && i < len(runes) {
			vars["char"] = string(runes[i])
		}
		for k, v := range extra {
			vars[k] = v
		}
		return domain.Step{
			Description: desc,
			Data: State{
				S:       in.S,
				Index:   i,
				Stack:   append([]string{}, stack...),
				Action:  action,
				Matched: append([]int(nil), matched...),
			},
			Variables: vars,
			CodeRef:   domain.Lines(lines...),
		}
	}

	trace := domain.Trace{snap("Start with an empty stack", -1, render.ActionNone, nil, 2, 3)}

	for i, r := range runes {
		open, closing := pairs[r]
		if !closing {
			stack = append(stack, string(r))
			openAt = append(openAt, i)
			trace = append(trace, snap(fmt.Sprintf("%q opens a group, push it", r), i, render.ActionPush, nil, 12))
			continue
		}
		if len(stack) == 0 || stack[len(stack)-1] != string(open) {
			top := "nothing"
			if len(stack) > 0 {
				top = fmt.Sprintf("%q", stack[len(stack)-1])
			}
			return append(trace, snap(fmt.Sprintf("%q cannot close %s, the string is invalid", r, top), i, render.ActionNone,
				domain.Variables{"result": false}, 7, 8))
		}
		matched = append(matched, openAt[len(openAt)-1], i)
		stack = stack[:len(stack)-1]
		openAt = openAt[:len(openAt)-1]
		trace = append(trace, snap(fmt.Sprintf("%q closes %q, pop it", r, open), i, render.ActionPop, nil, 10))
	}

	valid := len(stack) == 0
	desc := "Every bracket was closed, the string is valid"
	if !valid {
		desc = fmt.Sprintf("%d bracket(s) left open, the string is invalid", len(stack))
	}
	return append(trace, snap(desc, len(runes), render.ActionNone, domain.Variables{"result": valid}, 15))
}
