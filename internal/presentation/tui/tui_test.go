package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/stepwise/pkg/catalog"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/render"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, key string) (Screen, driver.Session, *playback.ManualScheduler) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	p, def, err := cat.Definition(key)
	require.NoError(t, err)

	sched := playback.NewManualScheduler()
	s := def.Open(driver.WithEngineOptions(playback.WithScheduler(sched)))
	t.Cleanup(s.Close)

	return Screen{Problem: p, Definition: def, Styles: render.PlainStyles()}, s, sched
}

func TestCompose(t *testing.T) {
	screen, s, _ := open(t, "two-sum")
	screen.ShowCode = true

	s.Seek(1)
	out := screen.Compose(s.View())

	assert.Contains(t, out, "1. Two Sum · easy")
	assert.Contains(t, out, "Step 2/5 · ⏸ paused · 1x")
	assert.Contains(t, out, "target = 9")
	assert.Contains(t, out, "i = 0")
	assert.Contains(t, out, "▶  4  ")
	assert.Contains(t, out, "▶  5  ")
	assert.NotContains(t, out, "▶  8  ")
}

func TestCompose_Description(t *testing.T) {
	screen, s, _ := open(t, "valid-parentheses")
	screen.ShowDescription = true
	screen.Markdown = PlainRenderer()

	assert.Contains(t, screen.Compose(s.View()), screen.Problem.Description[:20])
}

func TestCodeLines(t *testing.T) {
	lines := CodeLines([]string{"a", "\tb"}, []int{2}, render.PlainStyles())
	assert.Equal(t, []string{"  1  a", "▶ 2      b"}, lines)
}

func TestVariables(t *testing.T) {
	v := driver.View{Variables: map[string]any{"b": 2, "a": nil}}
	assert.Equal(t, "a = null  b = 2", Variables(v))
	assert.Empty(t, Variables(driver.View{}))
}

func TestNextSpeed(t *testing.T) {
	assert.Equal(t, 1.5, NextSpeed(1, 1))
	assert.Equal(t, 2.0, NextSpeed(2, 1))
	assert.Equal(t, 0.5, NextSpeed(1, -1))
	assert.Equal(t, 0.5, NextSpeed(0.5, -1))
	assert.Equal(t, 1.0, NextSpeed(1.2, -1))
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestPlayer_Keys(t *testing.T) {
	screen, s, sched := open(t, "reverse-linked-list")
	m := NewPlayer(screen, s)
	defer m.cancel()

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, s.State().CurrentStep)

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, s.State().IsPlaying)
	assert.Equal(t, 1, sched.Pending())

	m.Update(key('+'))
	assert.Equal(t, 1.5, s.State().Speed)

	m.Update(key('2'))
	assert.False(t, s.State().IsPlaying, "a new input stops playback")
	assert.Equal(t, "1,2", s.InputValues()["values"])
	assert.Contains(t, m.View(), "loaded Two nodes")

	m.Update(key('9'))
	assert.Contains(t, m.View(), "no preset 9")

	m.Update(key('c'))
	assert.Contains(t, m.View(), "func reverseList")

	_, cmd := m.Update(key('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestPlayer_SessionClosed(t *testing.T) {
	screen, s, _ := open(t, "two-sum")
	m := NewPlayer(screen, s)

	s.Close()
	msg := m.Init()()
	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHeadless(t *testing.T) {
	screen, s, sched := open(t, "two-sum")

	var buf bytes.Buffer
	require.NoError(t, Headless(&buf, screen, s, sched))

	out := buf.String()
	assert.Equal(t, 5, strings.Count(out, "1. Two Sum"))
	assert.Contains(t, out, "Step 5/5")
	assert.False(t, s.State().IsPlaying)
	assert.Equal(t, 0, sched.Pending())
}
