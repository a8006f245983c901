// Package problems registers the built-in algorithm adapters with the
// template that paints them.
package problems

import (
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/problems/reverselist"
	"github.com/aretw0/stepwise/pkg/problems/twosum"
	"github.com/aretw0/stepwise/pkg/problems/twosumii"
	"github.com/aretw0/stepwise/pkg/problems/validparens"
	"github.com/aretw0/stepwise/pkg/render"
)

// Template names the renderer family a problem uses.
type Template string

const (
	TemplateArray      Template = "array"
	TemplateLinkedList Template = "linked-list"
	TemplateStack      Template = "stack"
	TemplateString     Template = "string"
)

// Renderer paints a driver view as text.
type Renderer func(v driver.View, styles render.Styles) render.Frame

// Definition is a type-erased adapter: it opens driver sessions and renders
// their views.
type Definition struct {
	ID       string
	Template Template
	Render   Renderer
	open     func(opts ...driver.Option) driver.Session
}

// Open starts a new driver session on the default input.
func (d Definition) Open(opts ...driver.Option) driver.Session {
	return d.open(opts...)
}

// Define wraps a typed driver configuration.
func Define[I any](cfg driver.Config[I], tmpl Template, r Renderer) Definition {
	return Definition{
		ID:       cfg.Problem,
		Template: tmpl,
		Render:   r,
		open: func(opts ...driver.Option) driver.Session {
			return driver.New(cfg, opts...)
		},
	}
}

// Builtin returns the adapters shipped with stepwise.
func Builtin() []Definition {
	return []Definition{
		Define(twosum.Config(), TemplateArray, twosum.Render),
		Define(reverselist.Config(), TemplateLinkedList, reverselist.Render),
		Define(twosumii.Config(), TemplateArray, twosumii.Render),
		Define(validparens.Config(), TemplateStack, validparens.Render),
	}
}
