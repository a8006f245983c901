package twosumii

import (
	"fmt"

	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/render"
)

// Render paints the sorted array with both pointers.
func Render(v driver.View, styles render.Styles) render.Frame {
	nums, _ := v.Data.([]int)
	left, hasLeft := v.GetIntVariable("left")
	right, hasRight := v.GetIntVariable("right")
	finished := v.GetBooleanVariable("finished")

	return render.Array(nums, render.ArrayOptions[int]{
		State: func(i int) render.Patch {
			on := (hasLeft && i == left) || (hasRight && i == right)
			if !on {
				if hasLeft && hasRight && (i < left || i > right) {
					return render.Patch{Disabled: render.Bool(true)}
				}
				return render.Patch{}
			}
			if finished {
				return render.Patch{Highlighted: render.Bool(true)}
			}
			return render.Patch{Active: render.Bool(true)}
		},
		Styles:       styles,
		ShowIndices:  true,
		EmptyMessage: "Nothing to show",
		Slots: render.Slots{
			Header: func() string {
				target, _ := v.GetIntVariable("target")
				if sum, ok := v.GetIntVariable("sum"); ok {
					return fmt.Sprintf("left = %d  right = %d  sum = %d  target = %d", left, right, sum, target)
				}
				return fmt.Sprintf("left = %d  right = %d  target = %d", left, right, target)
			},
			Footer: func() string {
				if !finished {
					return ""
				}
				if result, ok := v.Variables.Ints("result"); ok && len(result) == 2 {
					return fmt.Sprintf("answer = [%d, %d]", result[0], result[1])
				}
				return "no answer"
			},
		},
	})
}
