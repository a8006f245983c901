package validparens

import (
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/render"
)

// Render paints the scanned string above the stack.
func Render(v driver.View, styles render.Styles) render.Frame {
	st, ok := v.Data.(State)
	if !ok {
		return render.String("", render.StringOptions{Styles: styles, EmptyMessage: "Nothing to show"})
	}

	matched := make(map[int]bool, len(st.Matched))
	for _, i := range st.Matched {
		matched[i] = true
	}
	str := render.String(st.S, render.StringOptions{
		CurrentIndex: st.Index,
		State: func(i int) render.StringPatch {
			return render.StringPatch{Matched: render.Bool(matched[i])}
		},
		Styles:       styles,
		EmptyMessage: `s = ""`,
	})

	stack := render.Stack(st.Stack, render.StackOptions[string]{
		State: func(i int) render.StackPatch {
			if i == len(st.Stack)-1 && st.Action == render.ActionPush {
				return render.StackPatch{Action: render.ActionPush}
			}
			return render.StackPatch{}
		},
		Styles:           styles,
		EmptyMessage:     "stack is empty",
		ShowBottomMarker: true,
		ShowSize:         true,
	})

	f := str
	f.Body = append(append(append([]string{}, str.Body...), ""), stack.Body...)
	if result, ok := v.Variables["result"].(bool); ok {
		if result {
			f.Footer = "valid ✓"
		} else {
			f.Footer = "invalid ✗"
		}
	}
	return f
}
