package timer

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/preset"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestTimer(t *testing.T, opts Options) (*Timer, *fakeClock) {
	t.Helper()

	clock := &fakeClock{t: time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	eng := engine.New(
		preset.Default(),
		engine.WithClock(clock.Now),
		engine.WithLogger(logger),
	)

	opts.Preset = preset.Default()

	return New(eng, opts, logger, clock.Now), clock
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)

	updated, ok := next.(model)
	require.True(t, ok)

	return updated, cmd
}

func TestModelTogglesAndTicks(t *testing.T) {
	tm, clock := newTestTimer(t, Options{})
	m := newModel(tm)

	assert.Contains(t, m.View(), "25:00")
	assert.Contains(t, m.View(), "[Ready]")

	m, _ = update(t, m, keyPress('p'))
	assert.True(t, m.state.IsRunning)

	clock.Advance(90 * time.Second)

	m, cmd := update(t, m, tickMsg(clock.Now()))
	assert.NotNil(t, cmd)
	assert.Equal(t, 1410, m.state.Remaining(clock.Now()))
	assert.Contains(t, m.View(), "23:30")

	m, _ = update(t, m, keyPress('p'))
	assert.False(t, m.state.IsRunning)
	assert.Contains(t, m.View(), "[Paused]")

	m, _ = update(t, m, keyPress('r'))
	assert.Equal(t, engine.StatusIdle, m.state.Status())
	assert.Equal(t, 1500, m.state.Remaining(clock.Now()))
}

func TestModelEnterOnlyStarts(t *testing.T) {
	tm, _ := newTestTimer(t, Options{})
	m := newModel(tm)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.state.IsRunning)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.state.IsRunning)
}

func TestModelQuit(t *testing.T) {
	tm, _ := newTestTimer(t, Options{})

	_, cmd := update(t, newModel(tm), keyPress('q'))
	require.NotNil(t, cmd)

	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModelWritesStatusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")

	tm, clock := newTestTimer(t, Options{StatusFile: path})
	m := newModel(tm)

	_, _ = update(t, m, keyPress('p'))

	s, err := ReadStatus(path)
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, engine.StatusRunning, s.State)
	assert.Equal(t, clock.Now().Add(25*time.Minute), s.EndTime)
}

func TestPlainLoopTogglesOnEnter(t *testing.T) {
	var out bytes.Buffer

	tm, _ := newTestTimer(t, Options{
		Plain: true,
		In:    strings.NewReader("\n"),
		Out:   &out,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	require.NoError(t, tm.Run(ctx))

	assert.True(t, tm.engine.Snapshot().IsRunning)
	assert.Contains(t, out.String(), "[Focus 1/4]")
	assert.Contains(t, out.String(), "25:00")
}

func TestPlainLoopReturnsWhileInputIsPending(t *testing.T) {
	in, w := io.Pipe()
	t.Cleanup(func() {
		w.Close()
	})

	tm, _ := newTestTimer(t, Options{
		Plain: true,
		In:    in,
		Out:   io.Discard,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- tm.Run(ctx)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the context was cancelled")
	}

	assert.False(t, tm.engine.Snapshot().IsRunning)
}
