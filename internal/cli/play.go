package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/stepwise/internal/presentation/graph"
	"github.com/aretw0/stepwise/internal/presentation/tui"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/playback"
	"github.com/aretw0/stepwise/pkg/render"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// InputOptions selects the input a command runs the algorithm on.
// A non-negative TestCase wins over Values.
type InputOptions struct {
	TestCase int
	Values   map[string]string
}

// PlayOptions configures RunPlay.
type PlayOptions struct {
	InputOptions
	Profile  string
	Headless bool
	ShowCode bool
}

// RunPlay opens the problem and plays it, interactively or headless.
func RunPlay(ctx context.Context, w io.Writer, app *App, key string, opts PlayOptions) error {
	p, def, err := app.Catalog.Definition(key)
	if err != nil {
		return err
	}
	settings := app.settingsOrDefault(ctx, opts.Profile)
	screen := tui.Screen{
		Problem:    p,
		Definition: def,
		ShowCode:   opts.ShowCode || settings.ShowCodeByDefault,
	}

	if opts.Headless {
		sched := playback.NewManualScheduler()
		sess := def.Open(app.DriverOptions(driver.WithEngineOptions(playback.WithScheduler(sched)))...)
		defer sess.Close()
		if _, err := applyInput(app, sess, opts.InputOptions); err != nil {
			return err
		}
		screen.Styles = render.PlainStyles()
		return tui.Headless(w, screen, sess, sched)
	}

	var extra []driver.Option
	if settings.DefaultSpeed > 0 {
		extra = append(extra, driver.WithSpeed(settings.DefaultSpeed))
	}
	sess := def.Open(app.DriverOptions(extra...)...)
	defer sess.Close()
	if _, err := applyInput(app, sess, opts.InputOptions); err != nil {
		return err
	}
	app.markStarted(ctx, opts.Profile, p.ID)

	width := 0
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		width, _, _ = term.GetSize(fd)
	}
	screen.Styles = render.DefaultStyles()
	screen.Markdown = tui.NewRenderer(width)

	if settings.AutoPlay || app.Config.Playback.Autoplay {
		sess.Play()
	}
	err = tui.NewPlayer(screen, sess).Run(tea.WithAltScreen(), tea.WithContext(ctx))
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// markStarted records the problem as in progress unless it is already completed.
func (a *App) markStarted(ctx context.Context, profile string, id int) {
	done, err := a.Tracker.IsCompleted(ctx, profile, id)
	if err == nil && !done {
		err = a.Tracker.MarkInProgress(ctx, profile, id)
	}
	if err != nil {
		a.Logger.Warn("Failed to record progress", "profile", profile, "problem", id, "error", err)
	}
}

func applyInput(app *App, sess driver.Session, in InputOptions) ([]string, error) {
	if in.TestCase >= 0 {
		if err := sess.ApplyTestCase(in.TestCase); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if len(in.Values) == 0 {
		return nil, nil
	}
	rejected, err := sess.ApplyValues(in.Values)
	if err != nil {
		return nil, err
	}
	if len(rejected) > 0 {
		app.Logger.Warn("Input fields rejected, keeping defaults", "problem", sess.ProblemID(), "fields", rejected)
	}
	return rejected, nil
}

// RunTrace generates the trace for the chosen input and writes it to w.
func RunTrace(w io.Writer, app *App, key string, in InputOptions, format string) error {
	p, sess, err := app.Catalog.Open(key, app.DriverOptions()...)
	if err != nil {
		return err
	}
	defer sess.Close()

	rejected, err := applyInput(app, sess, in)
	if err != nil {
		return err
	}
	return WriteTrace(w, NewTraceDocument(p, sess, rejected), format)
}

// RunGraph writes the Mermaid diagram of one step.
func RunGraph(w io.Writer, app *App, key string, in InputOptions, step int) error {
	_, sess, err := app.Catalog.Open(key, app.DriverOptions()...)
	if err != nil {
		return err
	}
	defer sess.Close()

	if _, err := applyInput(app, sess, in); err != nil {
		return err
	}
	sess.Seek(step)
	out, err := graph.FromView(sess.View())
	if err != nil {
		return fmt.Errorf("cannot graph %s: %w", key, err)
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// RunShow writes the problem description rendered through md.
func RunShow(w io.Writer, app *App, key string, md func(string) (string, error)) error {
	p, err := app.Catalog.Get(key)
	if err != nil {
		return err
	}
	if md == nil {
		md = tui.PlainRenderer()
	}
	out, err := md(ProblemMarkdown(p))
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", p.Slug, err)
	}
	_, err = fmt.Fprint(w, out)
	return err
}
