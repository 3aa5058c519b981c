// Package dispatch turns timer transitions into side effects: audio cues,
// desktop notifications, session records and the user's session command.
// Every transition produces its effects at most once.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/notify"
	"github.com/ayoisaiah/focusflow/internal/sound"
)

// debounceWindow is how long an event without a sequence number suppresses
// identical events.
const debounceWindow = time.Second

type (
	// Notifier shows a notification to the user.
	Notifier interface {
		Notify(title, body string, category notify.Category) error
	}

	// Sounder plays an audio cue and returns once it has finished.
	Sounder interface {
		Play(cue sound.Cue) error
	}

	// Recorder stores completed sessions.
	Recorder interface {
		RecordSession(ctx context.Context, rec engine.SessionRecord) error
	}

	// CommandRunner executes the session command.
	CommandRunner func(ctx context.Context, args []string) error
)

// Settings controls which effects are produced.
type Settings struct {
	// Categories switches individual notifications on or off. A category
	// missing from the map is enabled.
	Categories  map[notify.Category]bool
	SessionCmd  string
	QuietHours  QuietHours
	Notify      bool
	Sound       bool
	RecordStats bool
}

// DefaultSettings enables every effect with quiet hours off.
func DefaultSettings() Settings {
	return Settings{
		Notify:      true,
		Sound:       true,
		RecordStats: true,
		QuietHours: QuietHours{
			Start: 22 * 60,
			End:   8 * 60,
		},
	}
}

type debounceKey struct {
	kind  engine.EventKind
	mode  engine.Mode
	cycle int
}

// Dispatcher implements engine.Listener.
type Dispatcher struct {
	notifier Notifier
	sounder  Sounder
	recorder Recorder
	run      CommandRunner
	logger   *slog.Logger
	now      func() time.Time
	ctx      context.Context
	cancel   context.CancelFunc
	recent   map[debounceKey]time.Time
	wg       conc.WaitGroup
	settings Settings
	lastSeq  uint64
	mu       sync.Mutex
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithNotifier sets the notification backend.
func WithNotifier(n Notifier) Option {
	return func(d *Dispatcher) {
		d.notifier = n
	}
}

// WithSounder sets the audio cue player.
func WithSounder(s Sounder) Option {
	return func(d *Dispatcher) {
		d.sounder = s
	}
}

// WithRecorder sets where session records are written.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// WithCommandRunner replaces the function that executes the session command.
func WithCommandRunner(run CommandRunner) Option {
	return func(d *Dispatcher) {
		d.run = run
	}
}

// WithLogger sets the logger for failed effects.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// WithClock replaces time.Now for quiet hours and debouncing.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// New returns a dispatcher. Effects whose collaborator is not configured
// are skipped.
func New(settings Settings, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		settings: settings,
		run:      runCommand,
		logger:   slog.Default(),
		now:      time.Now,
		recent:   make(map[debounceKey]time.Time),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.ctx, d.cancel = context.WithCancel(context.Background())

	return d
}

// OnTransition fires the effects of a transition in the background. Events
// that were already handled are ignored.
func (d *Dispatcher) OnTransition(ev engine.Event) {
	d.mu.Lock()

	if !d.acceptLocked(ev) {
		d.mu.Unlock()

		d.logger.Debug(
			"duplicate transition ignored",
			slog.String("kind", string(ev.Kind)),
			slog.Uint64("seq", ev.Seq),
		)

		return
	}

	settings := d.settings
	now := d.now()
	d.mu.Unlock()

	if ev.Kind == engine.Resynchronized {
		d.logger.Warn("timer was stopped after a long interruption")
		return
	}

	if ev.Record != nil && settings.RecordStats && d.recorder != nil {
		rec := *ev.Record

		d.goSafe("record session", func() {
			err := d.recorder.RecordSession(d.ctx, rec)
			if errors.Is(err, context.Canceled) {
				d.logger.Warn(
					"session record abandoned on exit",
					slog.Time("completed_at", rec.CompletedAt),
					slog.Any("error", err),
				)
			} else if err != nil {
				d.logger.Error(
					"unable to record session",
					slog.Any("error", err),
				)
			}
		})
	}

	// phases that ended while nobody was watching are only recorded
	if ev.CatchUp {
		return
	}

	if cue, ok := cues[ev.Kind]; ok && settings.Sound && d.sounder != nil {
		d.goSafe("play sound", func() {
			err := d.sounder.Play(cue)
			if err != nil {
				d.logger.Error("unable to play sound", slog.Any("error", err))
			}
		})
	}

	if cat, ok := categories[ev.Kind]; ok && d.notifier != nil &&
		shouldNotify(settings, cat, now) {
		msg := notify.Compose(cat, ev.TotalSeconds/60, ev.MaxCycles)

		d.goSafe("notify", func() {
			err := d.notifier.Notify(msg.Title, msg.Body, msg.Category)
			if err != nil {
				d.logger.Error(
					"unable to display notification",
					slog.Any("error", err),
				)
			}
		})
	}

	if (ev.Kind == engine.FocusEnded || ev.Kind == engine.BreakEnded) &&
		settings.SessionCmd != "" {
		d.goSafe("session command", func() {
			err := d.runSessionCmd(settings.SessionCmd)
			if err != nil {
				d.logger.Error(
					"session command failed",
					slog.String("cmd", settings.SessionCmd),
					slog.Any("error", err),
				)
			}
		})
	}
}

// Wait blocks until every effect started so far has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close gives pending effects up to grace to finish, then cancels the
// context they run with and waits for them to return. Effects fired after
// Close start out cancelled.
func (d *Dispatcher) Close(grace time.Duration) {
	defer d.cancel()

	done := make(chan struct{})

	go func() {
		d.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		d.logger.Warn(
			"cancelling effects still running on exit",
			slog.Duration("grace", grace),
		)

		d.cancel()
		<-done
	}
}

// acceptLocked applies deduplication. Events with a sequence number must be
// newer than the last one seen; others are debounced per kind, mode and
// cycle.
func (d *Dispatcher) acceptLocked(ev engine.Event) bool {
	if ev.Seq > 0 {
		if ev.Seq <= d.lastSeq {
			return false
		}

		d.lastSeq = ev.Seq

		return true
	}

	key := debounceKey{kind: ev.Kind, mode: ev.Mode, cycle: ev.Cycle}
	now := d.now()

	if last, ok := d.recent[key]; ok && now.Sub(last) < debounceWindow {
		return false
	}

	for k, t := range d.recent {
		if now.Sub(t) >= debounceWindow {
			delete(d.recent, k)
		}
	}

	d.recent[key] = now

	return true
}

func (d *Dispatcher) goSafe(name string, fn func()) {
	d.wg.Go(func() {
		if r := panics.Try(fn); r != nil {
			d.logger.Error(
				"effect panicked",
				slog.String("effect", name),
				slog.String("panic", r.String()),
			)
		}
	})
}

func (d *Dispatcher) runSessionCmd(cmd string) error {
	args, err := shellquote.Split(cmd)
	if err != nil {
		return errParseSessionCmd.Wrap(err)
	}

	if len(args) == 0 {
		return nil
	}

	return d.run(d.ctx, args)
}

func runCommand(ctx context.Context, args []string) error {
	return exec.CommandContext(ctx, args[0], args[1:]...).Run()
}

func shouldNotify(s Settings, cat notify.Category, now time.Time) bool {
	if !s.Notify {
		return false
	}

	if enabled, ok := s.Categories[cat]; ok && !enabled {
		return false
	}

	return !s.QuietHours.Contains(now)
}

var cues = map[engine.EventKind]sound.Cue{
	engine.FocusStarted: sound.FocusStart,
	engine.FocusEnded:   sound.FocusEnd,
	engine.BreakStarted: sound.BreakStart,
	engine.BreakEnded:   sound.BreakEnd,
}

var categories = map[engine.EventKind]notify.Category{
	engine.FocusStarted:   notify.FocusStart,
	engine.FocusEnded:     notify.FocusEnd,
	engine.BreakStarted:   notify.BreakStart,
	engine.BreakEnded:     notify.BreakEnd,
	engine.CycleCompleted: notify.CycleComplete,
}
