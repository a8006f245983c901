package render

// ItemState is the per-element state every template computes.
type ItemState struct {
	Index       int            `json:"index"`
	Active      bool           `json:"is_active"`
	Highlighted bool           `json:"is_highlighted"`
	Disabled    bool           `json:"is_disabled"`
	Custom      map[string]any `json:"custom_state,omitempty"`
}

// Patch is a caller-supplied partial state merged over template defaults.
// Nil fields keep the default.
type Patch struct {
	Active      *bool
	Highlighted *bool
	Disabled    *bool
	Custom      map[string]any
}

// Bool returns a pointer to b, for building patches.
func Bool(b bool) *bool { return &b }

func (p Patch) apply(s *ItemState) {
	if p.Active != nil {
		s.Active = *p.Active
	}
	if p.Highlighted != nil {
		s.Highlighted = *p.Highlighted
	}
	if p.Disabled != nil {
		s.Disabled = *p.Disabled
	}
	if len(p.Custom) > 0 {
		if s.Custom == nil {
			s.Custom = make(map[string]any, len(p.Custom))
		}
		for k, v := range p.Custom {
			s.Custom[k] = v
		}
	}
}

// Indices returns a patch function activating the given indices.
func Indices(active ...int) func(int) Patch {
	set := make(map[int]struct{}, len(active))
	for _, i := range active {
		set[i] = struct{}{}
	}
	return func(i int) Patch {
		if _, ok := set[i]; ok {
			return Patch{Active: Bool(true)}
		}
		return Patch{}
	}
}
