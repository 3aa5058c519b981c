// Package timer hosts the countdown: it ticks the engine once per second and
// renders the result either as a terminal UI or as a single updating line
package timer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/preset"
)

// Options configures how the timer is presented.
type Options struct {
	In  io.Reader
	Out io.Writer
	// StatusFile is rewritten on every tick. Empty disables it.
	StatusFile     string
	Preset         preset.Preset
	TwentyFourHour bool
	Plain          bool
}

// Timer drives an engine from the terminal.
type Timer struct {
	engine *engine.Engine
	logger *slog.Logger
	now    func() time.Time
	opts   Options
}

// New returns a timer for the given engine. The engine's clock should match
// now.
func New(
	eng *engine.Engine,
	opts Options,
	logger *slog.Logger,
	now func() time.Time,
) *Timer {
	if opts.In == nil {
		opts.In = os.Stdin
	}

	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	if now == nil {
		now = time.Now
	}

	return &Timer{
		engine: eng,
		opts:   opts,
		logger: logger,
		now:    now,
	}
}

// Run blocks until the user quits or ctx is cancelled. Quitting leaves the
// timer state as it is, so a running phase keeps counting and is caught up
// on the next start.
func (t *Timer) Run(ctx context.Context) error {
	defer t.removeStatus()

	if t.opts.Plain {
		return t.runPlain(ctx)
	}

	p := tea.NewProgram(
		newModel(t),
		tea.WithContext(ctx),
		tea.WithInput(t.opts.In),
		tea.WithOutput(t.opts.Out),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

// toggle pauses a running timer and starts a stopped one.
func (t *Timer) toggle() engine.State {
	if t.engine.Snapshot().IsRunning {
		return t.engine.Pause()
	}

	return t.engine.Start()
}

func (t *Timer) writeStatus(s engine.State) {
	if t.opts.StatusFile == "" {
		return
	}

	err := WriteStatus(t.opts.StatusFile, NewStatus(s, t.now()))
	if err != nil {
		t.logger.Warn("status file not updated", slog.Any("error", err))
	}
}

func (t *Timer) removeStatus() {
	if t.opts.StatusFile == "" {
		return
	}

	_ = os.Remove(t.opts.StatusFile)
}

// runPlain prints the countdown on a single line. Pressing ENTER pauses or
// resumes the timer. Reads on In cannot be interrupted, so the reader
// goroutine outlives a cancelled ctx until In yields a line or EOF. Run does
// not wait for it.
func (t *Timer) runPlain(ctx context.Context) error {
	input := make(chan struct{})

	go func() {
		defer close(input)

		scanner := bufio.NewScanner(t.opts.In)
		for scanner.Scan() {
			select {
			case input <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	s := t.engine.Snapshot()
	t.printPlain(s)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(t.opts.Out)
			return nil

		case _, ok := <-input:
			if !ok {
				input = nil
				continue
			}

			s = t.toggle()

		case <-ticker.C:
			s = t.engine.Tick()
		}

		t.writeStatus(s)
		t.printPlain(s)
	}
}

func (t *Timer) printPlain(s engine.State) {
	now := t.now()
	left := s.Remaining(now)

	label := pterm.Green(fmt.Sprintf("[Focus %d/%d]", s.CurrentCycle, s.MaxCycles))
	if s.Mode == engine.Break {
		label = pterm.Cyan(fmt.Sprintf("[Break %d/%d]", s.CurrentCycle, s.MaxCycles))
	}

	var hint string

	switch s.Status() {
	case engine.StatusRunning:
		hint = "until " + now.Add(time.Duration(left)*time.Second).
			Format(clockFormat(t.opts.TwentyFourHour))
	case engine.StatusPaused:
		hint = "paused, press ENTER to resume"
	case engine.StatusIdle:
		hint = "press ENTER to start"
	}

	fmt.Fprintf(
		t.opts.Out,
		"\r\033[K%s 🕒%s %s",
		label,
		pterm.Yellow(fmt.Sprintf("%02d:%02d", left/60, left%60)),
		pterm.Gray(hint),
	)
}

func clockFormat(twentyFourHour bool) string {
	if twentyFourHour {
		return "15:04:05"
	}

	return "03:04:05 PM"
}
