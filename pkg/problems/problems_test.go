package problems_test

import (
	"testing"

	"github.com/aretw0/stepwise/pkg/problems"
	"github.com/aretw0/stepwise/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	defs := problems.Builtin()
	require.Len(t, defs, 4)

	ids := map[string]bool{}
	for _, def := range defs {
		assert.False(t, ids[def.ID], "duplicate id %s", def.ID)
		ids[def.ID] = true

		t.Run(def.ID, func(t *testing.T) {
			s := def.Open()
			defer s.Close()

			require.NoError(t, s.Err())
			assert.Positive(t, s.State().TotalSteps)
			assert.NotEmpty(t, s.Fields())
			assert.NotEmpty(t, s.TestCaseLabels())

			// Every preset and every step renders.
			for i := range s.TestCaseLabels() {
				require.NoError(t, s.ApplyTestCase(i))
				for step := 0; step < s.State().TotalSteps; step++ {
					s.Seek(step)
					f := def.Render(s.View(), render.PlainStyles())
					assert.NotEmpty(t, f.Lines())
				}
			}
		})
	}
}
