package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/stepwise/pkg/catalog"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Trace output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// PrintProblems writes the problems as a table. When prog is non-nil a status
// column shows the learner's progress on each problem.
func PrintProblems(w io.Writer, list []catalog.Problem, prog *domain.Progress) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No problems match.")
		return err
	}

	headers := []string{"ID", "LC", "TITLE", "DIFFICULTY", "CATEGORIES", "PLAYABLE"}
	if prog != nil {
		headers = append(headers, "STATUS")
	}
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, p := range list {
		playable := ""
		if p.Visualizable() {
			playable = string(p.Template)
		}
		row := []string{
			fmt.Sprint(p.ID),
			fmt.Sprint(p.LeetCode),
			p.Title,
			string(p.Difficulty),
			strings.Join(p.Categories, ", "),
			playable,
		}
		if prog != nil {
			row = append(row, status(prog, p.ID))
		}
		t.Row(row...)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func status(prog *domain.Progress, id int) string {
	var marks []string
	switch {
	case prog.Completed.Has(id):
		marks = append(marks, "✓ done")
	case prog.InProgress.Has(id):
		marks = append(marks, "… started")
	}
	if prog.Favorite.Has(id) {
		marks = append(marks, "★")
	}
	return strings.Join(marks, " ")
}

// ProblemMarkdown renders a catalog entry as a markdown document.
func ProblemMarkdown(p catalog.Problem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %d. %s\n\n", p.LeetCode, p.Title)
	fmt.Fprintf(&sb, "**%s**", p.Difficulty)
	if len(p.Categories) > 0 {
		fmt.Fprintf(&sb, " · %s", strings.Join(p.Categories, ", "))
	}
	sb.WriteString("\n\n")

	if p.Description != "" {
		sb.WriteString(strings.TrimSpace(p.Description))
		sb.WriteString("\n\n")
	}

	if len(p.Examples) > 0 {
		sb.WriteString("## Examples\n\n")
		for i, ex := range p.Examples {
			fmt.Fprintf(&sb, "**Example %d**\n\n", i+1)
			fmt.Fprintf(&sb, "- Input: `%s`\n- Output: `%s`\n", ex.Input, ex.Output)
			if ex.Explanation != "" {
				fmt.Fprintf(&sb, "- %s\n", ex.Explanation)
			}
			sb.WriteString("\n")
		}
	}

	if len(p.Constraints) > 0 {
		sb.WriteString("## Constraints\n\n")
		for _, c := range p.Constraints {
			fmt.Fprintf(&sb, "- `%s`\n", c)
		}
		sb.WriteString("\n")
	}

	if len(p.Hints) > 0 {
		sb.WriteString("## Hints\n\n")
		for i, h := range p.Hints {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, h)
		}
		sb.WriteString("\n")
	}

	if sol := p.Solution; sol.Code != "" {
		title := "Solution"
		if sol.Method != "" {
			title = fmt.Sprintf("Solution: %s", sol.Method)
		}
		fmt.Fprintf(&sb, "## %s\n\n```%s\n%s\n```\n", title, sol.Language, strings.TrimRight(sol.Code, "\n"))
		if sol.Time != "" || sol.Space != "" {
			fmt.Fprintf(&sb, "\nTime %s · Space %s\n", sol.Time, sol.Space)
		}
	}
	return sb.String()
}

// TraceDocument is the serialized form of a generated trace.
type TraceDocument struct {
	Problem    string            `json:"problem" yaml:"problem"`
	Input      map[string]string `json:"input" yaml:"input"`
	Rejected   []string          `json:"rejected,omitempty" yaml:"rejected,omitempty"`
	TotalSteps int               `json:"total_steps" yaml:"total_steps"`
	Steps      domain.Trace      `json:"steps" yaml:"steps"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewTraceDocument captures the session's current trace.
func NewTraceDocument(p catalog.Problem, s driver.Session, rejected []string) TraceDocument {
	doc := TraceDocument{
		Problem:    p.Slug,
		Input:      s.InputValues(),
		Rejected:   rejected,
		TotalSteps: s.State().TotalSteps,
		Steps:      s.Trace(),
	}
	if doc.Steps == nil {
		doc.Steps = domain.Trace{}
	}
	if err := s.Err(); err != nil {
		doc.Error = err.Error()
	}
	return doc
}

// WriteTrace encodes doc in the given format.
func WriteTrace(w io.Writer, doc TraceDocument, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode trace: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want json or yaml)", format)
}

// ParseValues turns repeated key=value flags into input field values.
func ParseValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid input %q (want field=value)", pair)
		}
		values[key] = value
	}
	return values, nil
}

// PrintProgress summarises a learner record.
func PrintProgress(w io.Writer, profile string, prog *domain.Progress, cat *catalog.Catalog) error {
	stats := prog.Stats(cat.Len())
	title := func(id int) string {
		p, err := cat.Get(fmt.Sprint(id))
		if err != nil {
			return fmt.Sprintf("#%d", id)
		}
		return fmt.Sprintf("%d. %s", p.ID, p.Title)
	}
	list := func(set domain.IDSet) string {
		if len(set) == 0 {
			return "-"
		}
		ids := set.Slice()
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = title(id)
		}
		return strings.Join(names, ", ")
	}

	s := prog.Settings
	lines := []string{
		fmt.Sprintf("Profile %s: %d/%d completed (%g%%)", profile, stats.Completed, stats.Total, stats.CompletionRate),
		fmt.Sprintf("  Completed:   %s", list(prog.Completed)),
		fmt.Sprintf("  In progress: %s", list(prog.InProgress)),
		fmt.Sprintf("  Favorites:   %s", list(prog.Favorite)),
		fmt.Sprintf("  Settings:    speed %gx · autoplay %s · code %s · theme %s",
			s.DefaultSpeed, onOff(s.AutoPlay), onOff(s.ShowCodeByDefault), s.Theme),
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
