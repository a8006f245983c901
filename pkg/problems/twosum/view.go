package twosum

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/render"
)

// Render paints the array with the scanned index active and the matched pair
// highlighted, and lists the hash map under it.
func Render(v driver.View, styles render.Styles) render.Frame {
	nums, _ := v.Data.([]int)
	i, hasI := v.GetIntVariable("i")
	result, _ := v.Variables.Ints("result")
	target, _ := v.GetIntVariable("target")

	return render.Array(nums, render.ArrayOptions[int]{
		State: func(idx int) render.Patch {
			for _, r := range result {
				if r == idx {
					return render.Patch{Highlighted: render.Bool(true), Active: render.Bool(false)}
				}
			}
			if hasI && idx == i {
				return render.Patch{Active: render.Bool(true)}
			}
			return render.Patch{}
		},
		Styles:       styles,
		ShowIndices:  true,
		EmptyMessage: "Nothing to show",
		Slots: render.Slots{
			Header: func() string { return fmt.Sprintf("target = %d", target) },
			Footer: func() string { return "map = " + formatMap(v) },
		},
	})
}

func formatMap(v driver.View) string {
	m, ok := v.Variables.Map("map")
	if !ok || len(m) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		x, _ := strconv.Atoi(keys[a])
		y, _ := strconv.Atoi(keys[b])
		return x < y
	})
	parts := make([]string, len(keys))
	for n, k := range keys {
		parts[n] = fmt.Sprintf("%s:%v", k, m[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
