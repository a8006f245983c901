package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/playback"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// stateMsg carries a playback state published by the session.
type stateMsg domain.PlaybackState

// closedMsg signals that the session subscription ended.
type closedMsg struct{}

const helpText = "space play/pause · ←/→ step · home/end · r reset · +/- speed · 1-9 preset · c code · d description · q quit"

// Player is the bubbletea model for interactive playback. It owns neither
// the session nor its timer: it drives the session through its controls and
// repaints whenever the session publishes a new state.
type Player struct {
	screen  Screen
	session driver.Session

	states <-chan domain.PlaybackState
	cancel func()

	width    int
	message  string
	showHelp bool
	quitting bool
}

// NewPlayer creates a player for the session.
func NewPlayer(screen Screen, session driver.Session) *Player {
	states, cancel := session.Subscribe()
	return &Player{
		screen:   screen,
		session:  session,
		states:   states,
		cancel:   cancel,
		showHelp: true,
	}
}

// Run starts the interactive program and blocks until the user quits.
func (m *Player) Run(opts ...tea.ProgramOption) error {
	defer m.cancel()
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

func (m *Player) waitForState() tea.Cmd {
	states := m.states
	return func() tea.Msg {
		s, ok := <-states
		if !ok {
			return closedMsg{}
		}
		return stateMsg(s)
	}
}

// Init implements tea.Model.
func (m *Player) Init() tea.Cmd {
	return m.waitForState()
}

// Update implements tea.Model.
func (m *Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case stateMsg:
		return m, m.waitForState()

	case closedMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		m.message = ""
		switch key := msg.String(); key {
		case "q", "Q", "ctrl+c", "esc":
			m.session.Pause()
			m.quitting = true
			return m, tea.Quit
		case " ", "p":
			m.session.Toggle()
		case "right", "l":
			m.session.StepForward()
		case "left", "h":
			m.session.StepBackward()
		case "home", "g":
			m.session.Seek(0)
		case "end", "G":
			m.session.Seek(m.session.State().TotalSteps - 1)
		case "r":
			m.session.Reset()
		case "+", "=":
			m.changeSpeed(1)
		case "-", "_":
			m.changeSpeed(-1)
		case "c":
			m.screen.ShowCode = !m.screen.ShowCode
		case "d":
			m.screen.ShowDescription = !m.screen.ShowDescription
		case "?":
			m.showHelp = !m.showHelp
		default:
			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				m.applyTestCase(int(key[0] - '1'))
			}
		}
	}
	return m, nil
}

func (m *Player) changeSpeed(dir int) {
	speed := NextSpeed(m.session.State().Speed, dir)
	if err := m.session.SetSpeed(speed); err != nil {
		m.message = err.Error()
	}
}

func (m *Player) applyTestCase(i int) {
	labels := m.session.TestCaseLabels()
	if err := m.session.ApplyTestCase(i); err != nil {
		m.message = fmt.Sprintf("no preset %d (have %d)", i+1, len(labels))
		return
	}
	m.message = "loaded " + labels[i]
}

// View implements tea.Model.
func (m *Player) View() string {
	if m.quitting {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(m.screen.Compose(m.session.View()))
	sb.WriteString("\n\n")
	if m.message != "" {
		sb.WriteString(m.message)
		sb.WriteString("\n")
	}
	if m.showHelp {
		help := lipgloss.NewStyle().Faint(true)
		if m.width > 0 {
			help = help.Width(m.width)
		}
		sb.WriteString(help.Render(helpText))
		sb.WriteString("\n")
	}
	return sb.String()
}

// NextSpeed steps through domain.SpeedOptions from the current speed.
// Speeds outside the options snap to the nearest option in that direction.
func NextSpeed(current float64, dir int) float64 {
	opts := domain.SpeedOptions
	if dir > 0 {
		for _, s := range opts {
			if s > current {
				return s
			}
		}
		return opts[len(opts)-1]
	}
	for i := len(opts) - 1; i >= 0; i-- {
		if opts[i] < current {
			return opts[i]
		}
	}
	return opts[0]
}

// Headless autoplays the session on a virtual clock and writes one frame per
// visited step to w. The session must have been opened on sched.
func Headless(w io.Writer, screen Screen, session driver.Session, sched *playback.ManualScheduler) error {
	write := func() error {
		_, err := fmt.Fprintf(w, "%s\n\n", screen.Compose(session.View()))
		return err
	}

	session.Reset()
	if err := write(); err != nil {
		return err
	}
	session.Play()

	last := session.State().CurrentStep
	for sched.FireNext() {
		st := session.State()
		if st.CurrentStep == last {
			continue
		}
		last = st.CurrentStep
		if err := write(); err != nil {
			return err
		}
	}
	return nil
}
