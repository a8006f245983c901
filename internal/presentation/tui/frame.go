package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/stepwise/pkg/catalog"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/problems"
	"github.com/aretw0/stepwise/pkg/render"
	"github.com/charmbracelet/lipgloss"
)

// Screen is everything a frame is composed from.
type Screen struct {
	Problem    catalog.Problem
	Definition problems.Definition
	Styles     render.Styles

	ShowCode        bool
	ShowDescription bool
	Markdown        func(string) (string, error)
}

// Compose renders the whole player screen for a view: title, playback
// status, step narration, the template output, variables and, optionally,
// the problem description and the solution with the step's lines marked.
func (s Screen) Compose(v driver.View) string {
	var sections []string

	sections = append(sections, s.title())
	if s.ShowDescription && s.Problem.Description != "" {
		sections = append(sections, s.description())
	}
	sections = append(sections, s.status(v))

	if v.Empty() {
		msg := "Nothing to visualize for this input."
		if v.Error != "" {
			msg = fmt.Sprintf("Nothing to visualize: %s", v.Error)
		}
		sections = append(sections, s.Styles.Paint(msg, s.Styles.Palette().Disabled, false))
		return strings.Join(sections, "\n\n")
	}

	sections = append(sections, v.Step.Description)
	if s.Definition.Render != nil {
		sections = append(sections, s.Definition.Render(v, s.Styles).String())
	}
	if vars := Variables(v); vars != "" {
		sections = append(sections, vars)
	}
	if s.ShowCode && s.Problem.Solution.Code != "" {
		sections = append(sections, s.codePane(v))
	}
	return strings.Join(sections, "\n\n")
}

func (s Screen) title() string {
	p := s.Problem
	title := p.Title
	if title == "" {
		title = s.Definition.ID
	}
	if p.LeetCode > 0 {
		title = fmt.Sprintf("%d. %s", p.LeetCode, title)
	}
	if p.Difficulty != "" {
		title = fmt.Sprintf("%s · %s", title, p.Difficulty)
	}
	return s.Styles.Paint(title, "", true)
}

func (s Screen) description() string {
	md := s.Markdown
	if md == nil {
		md = PlainRenderer()
	}
	out, err := md(s.Problem.Description)
	if err != nil {
		return s.Problem.Description
	}
	return strings.TrimRight(out, "\n")
}

func (s Screen) status(v driver.View) string {
	st := v.Playback
	mode := "⏸ paused"
	if st.IsPlaying {
		mode = "▶ playing"
	}
	step := 0
	if st.TotalSteps > 0 {
		step = st.CurrentStep + 1
	}
	return fmt.Sprintf("Step %d/%d · %s · %gx", step, st.TotalSteps, mode, st.Speed)
}

func (s Screen) codePane(v driver.View) string {
	lines := CodeLines(s.Problem.CodeLines(), s.Problem.Highlight(v.Step), s.Styles)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// CodeLines numbers the source and marks the highlighted (1-based) lines.
func CodeLines(code []string, highlight []int, styles render.Styles) []string {
	marked := make(map[int]bool, len(highlight))
	for _, n := range highlight {
		marked[n] = true
	}
	width := len(fmt.Sprint(len(code)))

	out := make([]string, len(code))
	for i, line := range code {
		n := i + 1
		text := fmt.Sprintf("%*d  %s", width, n, strings.ReplaceAll(line, "\t", "    "))
		if marked[n] {
			out[i] = "▶ " + styles.Paint(text, styles.Palette().Highlighted, true)
			continue
		}
		out[i] = "  " + text
	}
	return out
}

// Variables lists the step variables as "name = value", sorted by name.
func Variables(v driver.View) string {
	if len(v.Variables) == 0 {
		return ""
	}
	names := make([]string, 0, len(v.Variables))
	for name := range v.Variables {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		val := v.Variables[name]
		if val == nil {
			parts[i] = name + " = null"
			continue
		}
		parts[i] = fmt.Sprintf("%s = %v", name, val)
	}
	return strings.Join(parts, "  ")
}
