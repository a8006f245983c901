package driver

import (
	"github.com/aretw0/stepwise/pkg/domain"
)

// Session is the input-type-erased face of a Driver, used by hosts (CLI,
// HTTP, MCP) that handle heterogeneous problems uniformly.
type Session interface {
	Controls
	Toggle()

	ProblemID() string
	State() domain.PlaybackState
	View() View
	Trace() domain.Trace
	Err() error

	Fields() []domain.InputField
	InputValues() map[string]string
	TestCaseLabels() []string
	ApplyValues(values map[string]string) ([]string, error)
	ApplyTestCase(i int) error

	Subscribe() (<-chan domain.PlaybackState, func())
	Close()
}

var _ Session = (*Driver[struct{}])(nil)
