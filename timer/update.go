package timer

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayoisaiah/focusflow/internal/engine"
)

const (
	padding  = 2
	maxWidth = 80
)

type tickMsg time.Time

// model is the bubbletea model of the timer view. The engine is the source
// of truth; the model only keeps the last snapshot for rendering.
type model struct {
	timer    *Timer
	help     help.Model
	progress progress.Model
	styles   styles
	state    engine.State
}

func newModel(t *Timer) model {
	return model{
		timer:    t,
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
		styles:   newStyles(),
		state:    t.engine.Snapshot(),
	}
}

func tick() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.state = m.timer.engine.Tick()
		m.timer.writeStatus(m.state)

		return m, tick()

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-padding*2-4, maxWidth)

		return m, nil
	}

	return m, nil
}

func (m model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeymap.quit):
		return m, tea.Quit

	case key.Matches(msg, defaultKeymap.togglePlay):
		m.state = m.timer.toggle()

	case key.Matches(msg, defaultKeymap.start):
		m.state = m.timer.engine.Start()

	case key.Matches(msg, defaultKeymap.reset):
		m.state = m.timer.engine.Reset(m.timer.opts.Preset)

	default:
		return m, nil
	}

	m.timer.writeStatus(m.state)

	return m, nil
}
