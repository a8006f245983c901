package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Frame is the text tree a template produces. It holds no reference to
// playback state; Select forwards item clicks to the caller's handler.
type Frame struct {
	Header string
	Body   []string
	Footer string
	// Size is the number of selectable elements.
	Size int

	onSelect func(int)
}

// Lines flattens the frame into printable lines.
func (f Frame) Lines() []string {
	var lines []string
	if f.Header != "" {
		lines = append(lines, f.Header)
	}
	lines = append(lines, f.Body...)
	if f.Footer != "" {
		lines = append(lines, f.Footer)
	}
	return lines
}

func (f Frame) String() string {
	return strings.Join(f.Lines(), "\n")
}

// Select reports an item click. It returns false when the index is out of
// range or nobody listens.
func (f Frame) Select(i int) bool {
	if f.onSelect == nil || i < 0 || i >= f.Size {
		return false
	}
	f.onSelect(i)
	return true
}

// Slots override parts of a template's layout.
type Slots struct {
	// Container arranges rendered cells into body lines.
	Container func(cells []string) []string
	Header    func() string
	Footer    func() string
	// OnSelect receives item clicks.
	OnSelect func(index int)
}

func (s Slots) frame(cells []string, container func([]string) []string) Frame {
	if s.Container != nil {
		container = s.Container
	}
	f := Frame{Body: container(cells), Size: len(cells), onSelect: s.OnSelect}
	if s.Header != nil {
		f.Header = s.Header()
	}
	if s.Footer != nil {
		f.Footer = s.Footer()
	}
	return f
}

// Row joins cells horizontally with a separator.
func Row(sep string) func([]string) []string {
	return func(cells []string) []string {
		return []string{strings.Join(cells, sep)}
	}
}

// Column stacks cells vertically.
func Column(cells []string) []string {
	return append([]string(nil), cells...)
}

func visibleWidth(s string) int { return lipgloss.Width(s) }

// pad right-pads s to width visible columns.
func pad(s string, width int) string {
	if w := visibleWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// center pads s on both sides to width visible columns.
func center(s string, width int) string {
	w := visibleWidth(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
