package dispatch

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/notify"
	"github.com/ayoisaiah/focusflow/internal/preset"
	"github.com/ayoisaiah/focusflow/internal/sound"
)

type fakeEffects struct {
	notes    []notify.Category
	cues     []sound.Cue
	records  []engine.SessionRecord
	commands [][]string
	mu       sync.Mutex
}

func (f *fakeEffects) Notify(_, _ string, c notify.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.notes = append(f.notes, c)

	return nil
}

func (f *fakeEffects) Play(c sound.Cue) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cues = append(f.cues, c)

	return nil
}

func (f *fakeEffects) RecordSession(
	_ context.Context,
	rec engine.SessionRecord,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.records = append(f.records, rec)

	return nil
}

func (f *fakeEffects) runCommand(_ context.Context, args []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.commands = append(f.commands, args)

	return nil
}

type panickyNotifier struct{}

func (panickyNotifier) Notify(_, _ string, _ notify.Category) error {
	panic("no display")
}

var noon = time.Date(2025, time.March, 12, 12, 0, 0, 0, time.Local)

func newTestDispatcher(
	s Settings,
	now *time.Time,
) (*Dispatcher, *fakeEffects) {
	fx := &fakeEffects{}

	d := New(
		s,
		WithNotifier(fx),
		WithSounder(fx),
		WithRecorder(fx),
		WithCommandRunner(fx.runCommand),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time {
			return *now
		}),
	)

	return d, fx
}

func focusEnded(seq uint64) engine.Event {
	return engine.Event{
		Kind:         engine.FocusEnded,
		Mode:         engine.Focus,
		Cycle:        1,
		MaxCycles:    4,
		TotalSeconds: 1500,
		Seq:          seq,
		At:           noon,
		Record: &engine.SessionRecord{
			Phase:           engine.Focus,
			DurationMinutes: 25,
			CompletedAt:     noon,
		},
	}
}

func TestFocusEndedFiresEveryEffect(t *testing.T) {
	now := noon
	s := DefaultSettings()
	s.SessionCmd = `notify-send "Focus done"`

	d, fx := newTestDispatcher(s, &now)

	d.OnTransition(focusEnded(1))
	d.Wait()

	assert.Equal(t, []notify.Category{notify.FocusEnd}, fx.notes)
	assert.Equal(t, []sound.Cue{sound.FocusEnd}, fx.cues)
	require.Len(t, fx.records, 1)
	assert.Equal(t, 25, fx.records[0].DurationMinutes)
	assert.Equal(t, [][]string{{"notify-send", "Focus done"}}, fx.commands)
}

func TestDuplicateSequenceIsIgnored(t *testing.T) {
	now := noon
	d, fx := newTestDispatcher(DefaultSettings(), &now)

	d.OnTransition(focusEnded(5))
	d.OnTransition(focusEnded(5))
	d.OnTransition(focusEnded(4))
	d.Wait()

	assert.Len(t, fx.records, 1)
	assert.Len(t, fx.notes, 1)
	assert.Len(t, fx.cues, 1)
}

func TestEventsWithoutSequenceAreDebounced(t *testing.T) {
	now := noon
	d, fx := newTestDispatcher(DefaultSettings(), &now)

	d.OnTransition(focusEnded(0))

	now = now.Add(500 * time.Millisecond)
	d.OnTransition(focusEnded(0))

	now = now.Add(time.Second)
	d.OnTransition(focusEnded(0))
	d.Wait()

	assert.Len(t, fx.records, 2)
}

func TestCatchUpOnlyRecords(t *testing.T) {
	now := noon
	s := DefaultSettings()
	s.SessionCmd = "echo done"

	d, fx := newTestDispatcher(s, &now)

	ev := focusEnded(1)
	ev.CatchUp = true

	d.OnTransition(ev)
	d.Wait()

	assert.Len(t, fx.records, 1)
	assert.Empty(t, fx.notes)
	assert.Empty(t, fx.cues)
	assert.Empty(t, fx.commands)
}

func TestQuietHoursSuppressNotificationsOnly(t *testing.T) {
	now := time.Date(2025, time.March, 12, 23, 30, 0, 0, time.Local)
	s := DefaultSettings()
	s.QuietHours.Enabled = true

	d, fx := newTestDispatcher(s, &now)

	d.OnTransition(focusEnded(1))
	d.Wait()

	assert.Empty(t, fx.notes)
	assert.Len(t, fx.cues, 1)
	assert.Len(t, fx.records, 1)
}

func TestDisabledCategory(t *testing.T) {
	now := noon
	s := DefaultSettings()
	s.Categories = map[notify.Category]bool{notify.FocusEnd: false}

	d, fx := newTestDispatcher(s, &now)

	d.OnTransition(focusEnded(1))
	d.OnTransition(engine.Event{
		Kind:      engine.CycleCompleted,
		Mode:      engine.Break,
		Cycle:     4,
		MaxCycles: 4,
		Seq:       2,
	})
	d.Wait()

	assert.Equal(t, []notify.Category{notify.CycleComplete}, fx.notes)
}

func TestRecordingDisabled(t *testing.T) {
	now := noon
	s := DefaultSettings()
	s.RecordStats = false

	d, fx := newTestDispatcher(s, &now)

	d.OnTransition(focusEnded(1))
	d.Wait()

	assert.Empty(t, fx.records)
}

func TestResynchronizedHasNoEffects(t *testing.T) {
	now := noon
	d, fx := newTestDispatcher(DefaultSettings(), &now)

	d.OnTransition(engine.Event{Kind: engine.Resynchronized, Seq: 9, CatchUp: true})
	d.Wait()

	assert.Empty(t, fx.notes)
	assert.Empty(t, fx.cues)
	assert.Empty(t, fx.records)
}

func TestPanickingEffectIsRecovered(t *testing.T) {
	now := noon
	fx := &fakeEffects{}

	d := New(
		DefaultSettings(),
		WithNotifier(panickyNotifier{}),
		WithRecorder(fx),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time {
			return now
		}),
	)

	d.OnTransition(focusEnded(1))

	assert.NotPanics(t, d.Wait)
	assert.Len(t, fx.records, 1)
}

// stalledRecorder blocks until its context is cancelled.
type stalledRecorder struct {
	cancelled int
	mu        sync.Mutex
}

func (r *stalledRecorder) RecordSession(
	ctx context.Context,
	_ engine.SessionRecord,
) error {
	<-ctx.Done()

	r.mu.Lock()
	r.cancelled++
	r.mu.Unlock()

	return ctx.Err()
}

func TestCloseCancelsStalledEffects(t *testing.T) {
	rec := &stalledRecorder{}

	d := New(
		DefaultSettings(),
		WithRecorder(rec),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	for i := range 10 {
		ev := focusEnded(uint64(i + 1))
		ev.CatchUp = true
		ev.Record.CompletedAt = noon.Add(time.Duration(i) * time.Hour)

		d.OnTransition(ev)
	}

	start := time.Now()

	d.Close(50 * time.Millisecond)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 10, rec.cancelled)
}

func TestCloseWaitsForQuickEffects(t *testing.T) {
	now := noon
	d, fx := newTestDispatcher(DefaultSettings(), &now)

	d.OnTransition(focusEnded(1))
	d.Close(time.Second)

	assert.Len(t, fx.records, 1)
	assert.Len(t, fx.notes, 1)
}

type lockedClock struct {
	t  time.Time
	mu sync.Mutex
}

func (c *lockedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.t
}

func (c *lockedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// slowFocusEnd holds the first FocusEnded event until release is closed.
type slowFocusEnd struct {
	next    engine.Listener
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *slowFocusEnd) OnTransition(ev engine.Event) {
	if ev.Kind == engine.FocusEnded {
		s.once.Do(func() {
			close(s.entered)
			<-s.release
		})
	}

	s.next.OnTransition(ev)
}

func TestOverlappingTicksRecordEveryPhase(t *testing.T) {
	now := noon
	d, fx := newTestDispatcher(DefaultSettings(), &now)

	clock := &lockedClock{t: noon}
	slow := &slowFocusEnd{
		next:    d,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}

	e := engine.New(
		preset.ResolveCustom(1, 1, 4),
		engine.WithClock(clock.Now),
		engine.WithListener(slow),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	e.Start()
	clock.Advance(time.Minute)

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()
		e.Tick()
	}()

	<-slow.entered
	clock.Advance(time.Minute)

	go func() {
		defer wg.Done()
		e.Tick()
	}()

	time.Sleep(50 * time.Millisecond)
	close(slow.release)
	wg.Wait()
	d.Wait()

	fx.mu.Lock()
	defer fx.mu.Unlock()

	require.Len(t, fx.records, 2)

	phases := []engine.Mode{fx.records[0].Phase, fx.records[1].Phase}
	assert.ElementsMatch(t, []engine.Mode{engine.Focus, engine.Break}, phases)
}

func TestQuietHoursContains(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2025, time.March, 12, h, m, 0, 0, time.UTC)
	}

	overnight, err := ParseQuietHours(true, "22:00", "08:00")
	require.NoError(t, err)

	daytime, err := ParseQuietHours(true, "13:00", "14:30")
	require.NoError(t, err)

	cases := []struct {
		name string
		q    QuietHours
		t    time.Time
		want bool
	}{
		{"overnight start is inclusive", overnight, at(22, 0), true},
		{"overnight after midnight", overnight, at(3, 15), true},
		{"overnight end is inclusive", overnight, at(8, 0), true},
		{"overnight outside", overnight, at(8, 1), false},
		{"overnight evening outside", overnight, at(21, 59), false},
		{"daytime inside", daytime, at(14, 0), true},
		{"daytime end", daytime, at(14, 30), true},
		{"daytime outside", daytime, at(15, 0), false},
		{"disabled", QuietHours{Start: 0, End: 1439}, at(12, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.q.Contains(tc.t))
		})
	}

	_, err = ParseQuietHours(true, "25:00", "08:00")
	assert.Error(t, err)
}
