package domain

// Step is one immutable snapshot of an algorithm's execution.
// A Step must be renderable on its own: it never relies on state carried over
// from the previous or next Step of the same Trace.
type Step struct {
	// Description is the human-readable narration shown next to the step.
	Description string `json:"description" yaml:"description"`

	// Data is the problem-specific snapshot of the visualized structure.
	// Only the renderer chosen for the problem interprets it.
	Data any `json:"data" yaml:"data"`

	// Variables holds named algorithm state (indices, pointers, accumulators).
	Variables Variables `json:"variables,omitempty" yaml:"variables,omitempty"`

	// CodeRef correlates the step with highlighted source lines. Cosmetic only.
	CodeRef *CodeRef `json:"code_ref,omitempty" yaml:"code_ref,omitempty"`
}

// CodeRef points at the source lines (1-based) or fragment a step executes.
type CodeRef struct {
	Lines    []int  `json:"lines,omitempty" yaml:"lines,omitempty"`
	Fragment string `json:"fragment,omitempty" yaml:"fragment,omitempty"`
}

// Lines is a shorthand for building a CodeRef from line numbers.
func Lines(lines ...int) *CodeRef {
	return &CodeRef{Lines: lines}
}

// Trace is the full ordered sequence of Steps produced for one input.
type Trace []Step

// Len returns the number of steps.
func (t Trace) Len() int { return len(t) }

// At returns the step at index i, or false when i is out of range.
func (t Trace) At(i int) (Step, bool) {
	if i < 0 || i >= len(t) {
		return Step{}, false
	}
	return t[i], true
}

// Generator is the algorithm adapter contract: a pure, deterministic function
// turning an input into a non-empty Trace.
type Generator[I any] func(input I) Trace
