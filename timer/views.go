package timer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/ui"
)

type styles struct {
	base      lipgloss.Style
	main      lipgloss.Style
	secondary lipgloss.Style
	hint      lipgloss.Style
	focus     lipgloss.Style
	brk       lipgloss.Style
}

func newStyles() styles {
	label := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		MarginRight(1).
		Foreground(lipgloss.Color("#FFFDF5"))

	return styles{
		base:      lipgloss.NewStyle().Padding(1, padding),
		main:      lipgloss.NewStyle().Bold(true),
		secondary: lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
		hint:      lipgloss.NewStyle().Faint(true),
		focus:     label.Background(ui.PhaseColor(true)),
		brk:       label.Background(ui.PhaseColor(false)),
	}
}

// formatTimeRemaining returns the remaining time formatted as "MM:SS".
func formatTimeRemaining(secs int) string {
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func (m model) timerView(now time.Time) string {
	var s strings.Builder

	st := m.state

	if st.Mode == engine.Focus {
		s.WriteString(m.styles.focus.Render("Focus"))
	} else {
		s.WriteString(m.styles.brk.Render("Break"))
	}

	left := st.Remaining(now)

	switch st.Status() {
	case engine.StatusRunning:
		end := now.Add(time.Duration(left) * time.Second)

		s.WriteString(m.styles.hint.Render(
			"until " + end.Format(clockFormat(m.timer.opts.TwentyFourHour)),
		))
	case engine.StatusPaused:
		s.WriteString(m.styles.secondary.Render("[Paused]"))
	case engine.StatusIdle:
		s.WriteString(m.styles.secondary.Render("[Ready]"))
	}

	s.WriteString(m.styles.hint.Render(
		fmt.Sprintf(" (%d/%d) %s", st.CurrentCycle, st.MaxCycles, st.Preset.Name),
	))

	var percent float64
	if st.TotalSeconds > 0 {
		percent = st.Elapsed(now) / float64(st.TotalSeconds)
	}

	s.WriteString("\n\n")
	s.WriteString(m.styles.main.Render(formatTimeRemaining(left)))
	s.WriteString("\n\n")
	s.WriteString(m.progress.ViewAs(min(percent, 1)))

	if m.timer.engine.Resynced() {
		s.WriteString("\n\n")
		s.WriteString(m.styles.secondary.Render(
			"The timer was away too long to catch up and has been reset to the start of the phase",
		))
	}

	s.WriteString("\n\n")
	s.WriteString(m.helpView())

	return s.String()
}

func (m model) helpView() string {
	bindings := []key.Binding{defaultKeymap.togglePlay}

	if !m.state.IsRunning {
		bindings = append(bindings, defaultKeymap.start)
	}

	bindings = append(bindings, defaultKeymap.reset, defaultKeymap.quit)

	return m.help.ShortHelpView(bindings)
}

func (m model) View() string {
	return m.styles.base.Render(m.timerView(m.timer.now()))
}
