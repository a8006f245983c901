package reverselist_test

import (
	"testing"

	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/problems/reverselist"
	"github.com/aretw0/stepwise/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nexts(st reverselist.State) []*int {
	out := make([]*int, len(st.Nodes))
	for i, n := range st.Nodes {
		out[i] = n.Next
	}
	return out
}

func intp(i int) *int { return &i }

func TestGenerate_FiveNodes(t *testing.T) {
	trace := reverselist.Generate(reverselist.Input{Values: []int{1, 2, 3, 4, 5}})
	require.NotEmpty(t, trace)

	first, ok := trace[0].Data.(reverselist.State)
	require.True(t, ok)
	assert.Equal(t, []*int{intp(1), intp(2), intp(3), intp(4), nil}, nexts(first))
	assert.False(t, first.Complete)

	last, ok := trace[len(trace)-1].Data.(reverselist.State)
	require.True(t, ok)
	assert.True(t, last.Complete)
	assert.Equal(t, []*int{nil, intp(0), intp(1), intp(2), intp(3)}, nexts(last))
	for i, n := range last.Nodes {
		if n.Next != nil {
			assert.NotEqual(t, i, *n.Next)
		}
	}
	assert.Equal(t, intp(4), last.Prev)
	assert.Nil(t, last.Curr)

	// Earlier snapshots are untouched by later rewiring.
	first, _ = trace[0].Data.(reverselist.State)
	assert.Equal(t, intp(1), first.Nodes[0].Next)
}

func TestGenerate_Variables(t *testing.T) {
	trace := reverselist.Generate(reverselist.Input{Values: []int{1, 2}})

	assert.Nil(t, trace[0].Variables.Get("prev"))
	curr, ok := trace[0].Variables.Int("curr")
	require.True(t, ok)
	assert.Equal(t, 0, curr)
	assert.True(t, trace[len(trace)-1].Variables.Bool("complete"))
}

func TestGenerate_EmptyAndSingle(t *testing.T) {
	empty := reverselist.Generate(reverselist.Input{})
	require.Len(t, empty, 1)
	st := empty[0].Data.(reverselist.State)
	assert.True(t, st.Complete)
	assert.Empty(t, st.Nodes)

	single := reverselist.Generate(reverselist.Input{Values: []int{7}})
	last := single[len(single)-1].Data.(reverselist.State)
	assert.True(t, last.Complete)
	assert.Nil(t, last.Nodes[0].Next)
}

func TestRender(t *testing.T) {
	d := driver.New(reverselist.Config())
	defer d.Close()

	f := reverselist.Render(d.View(), render.PlainStyles())
	require.Len(t, f.Body, 2)
	assert.Contains(t, f.Body[0], "[1]→")
	assert.Contains(t, f.Body[1], "^curr")

	d.Seek(d.State().TotalSteps - 1)
	f = reverselist.Render(d.View(), render.PlainStyles())
	assert.Equal(t, "reversed ✓", f.Footer)
	assert.Contains(t, f.Body[0], "←")
}

func TestLenientInput(t *testing.T) {
	d := driver.New(reverselist.Config())
	defer d.Close()

	rejected, err := d.ApplyValues(map[string]string{"values": "3, x, 4"})
	require.NoError(t, err)
	assert.Empty(t, rejected)
	assert.Equal(t, []int{3, 4}, d.Input().Values)
}
