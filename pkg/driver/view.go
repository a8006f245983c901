package driver

import (
	"github.com/aretw0/stepwise/pkg/domain"
)

// Controls are the playback operations a renderer may trigger.
type Controls interface {
	Play()
	Pause()
	StepForward()
	StepBackward()
	Reset()
	Seek(step int)
	SetSpeed(speed float64) error
}

// View is the read-only projection handed to renderers: the current step,
// its variables, and the playback state. Renderers never mutate it; they act
// through Controls.
type View struct {
	Problem   string               `json:"problem"`
	Step      *domain.Step         `json:"step,omitempty"`
	Data      any                  `json:"data,omitempty"`
	Variables domain.Variables     `json:"variables,omitempty"`
	Playback  domain.PlaybackState `json:"playback"`
	Error     string               `json:"error,omitempty"`

	Controls Controls `json:"-"`
}

// Empty reports whether there is nothing to show (adapter failure or empty trace).
func (v View) Empty() bool {
	return v.Step == nil
}

// GetVariable returns the raw variable, or the first default when absent.
func (v View) GetVariable(name string, def ...any) any {
	if val, ok := v.Variables[name]; ok && val != nil {
		return val
	}
	if len(def) > 0 {
		return def[0]
	}
	return nil
}

// GetBooleanVariable returns the truthiness of the variable.
func (v View) GetBooleanVariable(name string) bool {
	return v.Variables.Bool(name)
}

// GetNumberVariable returns the variable when it is numeric.
func (v View) GetNumberVariable(name string) (float64, bool) {
	return v.Variables.Number(name)
}

// GetIntVariable returns the variable when it is a whole number.
func (v View) GetIntVariable(name string) (int, bool) {
	return v.Variables.Int(name)
}

// GetArrayVariable returns the variable when it is a slice or array.
func (v View) GetArrayVariable(name string) ([]any, bool) {
	return v.Variables.Array(name)
}

// Highlighted returns the code lines the current step points at.
func (v View) Highlighted() []int {
	if v.Step == nil || v.Step.CodeRef == nil {
		return nil
	}
	return v.Step.CodeRef.Lines
}
