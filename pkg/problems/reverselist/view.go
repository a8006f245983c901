package reverselist

import (
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/render"
)

// Pointers returns the prev, curr and next pointers of the snapshot.
func (st State) Pointers(pal render.Palette) []render.Pointer {
	return []render.Pointer{
		{Name: "prev", Index: st.Prev, Color: pal.Disabled},
		{Name: "curr", Index: st.Curr, Color: pal.Active},
		{Name: "next", Index: st.Next, Color: pal.Highlighted},
	}
}

// Render paints the node array with prev, curr and next pointers.
func Render(v driver.View, styles render.Styles) render.Frame {
	st, _ := v.Data.(State)

	return render.LinkedList(st.Nodes, render.LinkedListOptions{
		Pointers:     st.Pointers(styles.Palette()),
		Styles:       styles,
		EmptyMessage: "Nothing to show",
		Slots: render.Slots{
			Footer: func() string {
				if st.Complete {
					return "reversed ✓"
				}
				return ""
			},
		},
	})
}
