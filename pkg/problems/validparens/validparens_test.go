package validparens_test

import (
	"testing"

	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/problems/validparens"
	"github.com/aretw0/stepwise/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(t *testing.T, s string) bool {
	t.Helper()
	trace := validparens.Generate(validparens.Input{S: s})
	require.NotEmpty(t, trace)
	v, ok := trace[len(trace)-1].Variables["result"].(bool)
	require.True(t, ok)
	return v
}

func TestGenerate_Results(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"()", true},
		{"()[]{}", true},
		{"(]", false},
		{"([{}])", true},
		{"((", false},
		{")", false},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			assert.Equal(t, tt.want, result(t, tt.s))
		})
	}
}

func TestGenerate_StackSnapshots(t *testing.T) {
	trace := validparens.Generate(validparens.Input{S: "([])"})
	require.Len(t, trace, 6)

	stacks := make([][]string, len(trace))
	for i, step := range trace {
		stacks[i] = step.Data.(validparens.State).Stack
	}
	assert.Equal(t, [][]string{{}, {"("}, {"(", "["}, {"("}, {}, {}}, stacks)

	last := trace[len(trace)-1].Data.(validparens.State)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, last.Matched)
	assert.Equal(t, render.ActionPop, trace[3].Data.(validparens.State).Action)
}

func TestRender(t *testing.T) {
	d := driver.New(validparens.Config())
	defer d.Close()
	require.NoError(t, d.ApplyTestCase(0))

	d.StepForward()
	f := validparens.Render(d.View(), render.PlainStyles())
	assert.Equal(t, "[(] ) ", f.Body[0])
	assert.Contains(t, f.String(), "size: 1")

	d.Seek(d.State().TotalSteps - 1)
	f = validparens.Render(d.View(), render.PlainStyles())
	assert.Equal(t, "valid ✓", f.Footer)
	assert.Contains(t, f.String(), "stack is empty")
}
