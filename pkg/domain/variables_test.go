package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariables_Accessors(t *testing.T) {
	vars := Variables{
		"i":          2,
		"sum":        json.Number("9"),
		"ratio":      0.5,
		"label":      "left",
		"found":      true,
		"result":     []int{0, 1},
		"items":      []any{"a", 1},
		"map":        map[int]int{2: 0, 7: 1},
		"empty":      []int{},
		"zero":       0,
		"nothing":    nil,
		"fractional": 1.25,
	}

	t.Run("Number", func(t *testing.T) {
		n, ok := vars.Number("i")
		assert.True(t, ok)
		assert.Equal(t, 2.0, n)

		n, ok = vars.Number("sum")
		assert.True(t, ok)
		assert.Equal(t, 9.0, n)

		_, ok = vars.Number("label")
		assert.False(t, ok, "strings are not numbers")

		_, ok = vars.Number("missing")
		assert.False(t, ok)
	})

	t.Run("Int", func(t *testing.T) {
		i, ok := vars.Int("i")
		assert.True(t, ok)
		assert.Equal(t, 2, i)

		_, ok = vars.Int("fractional")
		assert.False(t, ok)
	})

	t.Run("Bool", func(t *testing.T) {
		assert.True(t, vars.Bool("found"))
		assert.True(t, vars.Bool("label"))
		assert.True(t, vars.Bool("result"))
		assert.False(t, vars.Bool("empty"))
		assert.False(t, vars.Bool("zero"))
		assert.False(t, vars.Bool("nothing"))
		assert.False(t, vars.Bool("missing"))
	})

	t.Run("Array", func(t *testing.T) {
		arr, ok := vars.Array("result")
		assert.True(t, ok)
		assert.Equal(t, []any{0, 1}, arr)

		arr, ok = vars.Array("items")
		assert.True(t, ok)
		assert.Len(t, arr, 2)

		_, ok = vars.Array("i")
		assert.False(t, ok)

		ints, ok := vars.Ints("result")
		assert.True(t, ok)
		assert.Equal(t, []int{0, 1}, ints)

		_, ok = vars.Ints("items")
		assert.False(t, ok)
	})

	t.Run("Map", func(t *testing.T) {
		m, ok := vars.Map("map")
		assert.True(t, ok)
		assert.Equal(t, map[string]any{"2": 0, "7": 1}, m)

		_, ok = vars.Map("items")
		assert.False(t, ok)
	})

	t.Run("Value with default", func(t *testing.T) {
		assert.Equal(t, "left", Value(vars, "label", "none"))
		assert.Equal(t, "none", Value(vars, "i", "none"), "type mismatch yields default")
		assert.Equal(t, 7, Value(vars, "missing", 7))
		assert.Equal(t, 3, Value(vars, "nothing", 3))
	})

	t.Run("Nil bag never panics", func(t *testing.T) {
		var empty Variables
		assert.False(t, empty.Bool("x"))
		_, ok := empty.Number("x")
		assert.False(t, ok)
		_, ok = empty.Array("x")
		assert.False(t, ok)
		assert.Nil(t, empty.Get("x"))
		assert.Equal(t, 1, Value(empty, "x", 1))
	})
}

func TestVariables_Decode(t *testing.T) {
	vars := Variables{"left": 0, "right": 2, "sum": 6, "finished": true}

	var out struct {
		Left     int  `mapstructure:"left"`
		Right    int  `mapstructure:"right"`
		Sum      int  `mapstructure:"sum"`
		Finished bool `mapstructure:"finished"`
	}
	require.NoError(t, vars.Decode(&out))
	assert.Equal(t, 0, out.Left)
	assert.Equal(t, 2, out.Right)
	assert.Equal(t, 6, out.Sum)
	assert.True(t, out.Finished)
}

func TestVariables_Clone(t *testing.T) {
	vars := Variables{"i": 1}
	clone := vars.Clone()
	clone["i"] = 2
	assert.Equal(t, 1, vars["i"])
	assert.Nil(t, Variables(nil).Clone())
}
