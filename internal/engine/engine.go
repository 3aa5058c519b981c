// Package engine implements the wall-clock anchored focus/break countdown.
// Remaining time is always recomputed from the anchor so the countdown
// survives sleeps, restarts and missed ticks.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ayoisaiah/focusflow/internal/preset"
)

// MaxCatchUp bounds the number of transitions replayed while fast-forwarding
// a running state.
const MaxCatchUp = 1000

// staleTransition is how far in the past a phase boundary may lie before the
// transition is treated as catch-up.
const staleTransition = 5 * time.Second

// Store persists the timer state.
type Store interface {
	LoadTimer() (*State, error)
	SaveTimer(s *State) error
}

// Policy controls what happens when a phase reaches zero.
type Policy struct {
	AutoStartBreak bool
	AutoStartFocus bool
}

// DefaultPolicy starts breaks automatically and waits for the user before
// resuming focus.
func DefaultPolicy() Policy {
	return Policy{AutoStartBreak: true}
}

// Engine is the timer state machine. All methods are safe for concurrent use
// and events reach the listener in Seq order: deliverMu is acquired before
// mu is released and held while events are delivered.
type Engine struct {
	store     Store
	listener  Listener
	now       func() time.Time
	logger    *slog.Logger
	pending   []Event
	state     State
	policy    Policy
	mu        sync.Mutex
	deliverMu sync.Mutex
	resynced  bool
	announced bool // started event of the current phase was emitted
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore sets the persistence backend.
func WithStore(s Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithListener sets the receiver of transition events.
func WithListener(l Listener) Option {
	return func(e *Engine) {
		e.listener = l
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets the logger for persistence failures and transitions.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithPolicy sets the auto-start policy. DefaultPolicy is used otherwise.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// New returns an engine in the idle state for the given preset. Nothing is
// read from the store.
func New(p preset.Preset, opts ...Option) *Engine {
	e := &Engine{
		now:    time.Now,
		logger: slog.Default(),
		policy: DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.state = newState(preset.Normalize(p))

	return e
}

// Open restores the persisted state, fast-forwarding any phases that ended
// while the process was not running. If nothing is stored or the stored
// state cannot be read, the engine starts idle with the fallback preset and
// persists that state.
func Open(fallback preset.Preset, opts ...Option) *Engine {
	e := New(fallback, opts...)

	e.mu.Lock()

	if e.store != nil {
		st, err := e.store.LoadTimer()
		if err != nil {
			e.logger.Warn(
				"discarding unreadable timer state",
				slog.Any("error", err),
			)
		}

		if st != nil {
			e.state = sanitize(*st)
			e.announced = e.state.IsRunning ||
				e.state.AccumulatedElapsedSeconds > 0
			e.advanceLocked(e.now())
		}
	}

	e.saveLocked()
	e.unlockAndDeliver()

	return e
}

// Start resumes or begins the current phase. It has no effect if the timer
// is already running.
func (e *Engine) Start() State {
	e.mu.Lock()

	if !e.state.IsRunning {
		now := e.now()

		e.state.Anchor = &now
		e.state.IsRunning = true
		e.resynced = false

		if !e.announced {
			e.emitLocked(startedKind(e.state.Mode), now, false, nil)
			e.announced = true
		}

		e.saveLocked()
	}

	snap := e.snapshotLocked()
	e.unlockAndDeliver()

	return snap
}

// Pause banks the elapsed time of the running phase and clears the anchor.
// A phase that already reached zero is transitioned first. Calling Pause on
// a timer that is not running leaves the state untouched.
func (e *Engine) Pause() State {
	e.mu.Lock()

	if e.state.IsRunning {
		now := e.now()

		e.advanceLocked(now)

		if e.state.IsRunning {
			e.state.AccumulatedElapsedSeconds = e.state.Elapsed(now)
			e.state.Anchor = nil
			e.state.IsRunning = false
			e.state.RemainingSeconds = e.state.Remaining(now)
		}

		e.saveLocked()
	}

	snap := e.snapshotLocked()
	e.unlockAndDeliver()

	return snap
}

// Reset discards the current progress and returns to the first focus phase
// of the given preset. The transition sequence is preserved.
func (e *Engine) Reset(p preset.Preset) State {
	e.mu.Lock()

	seq := e.state.TransitionSeq
	e.state = newState(preset.Normalize(p))
	e.state.TransitionSeq = seq
	e.resynced = false
	e.announced = false

	e.saveLocked()

	snap := e.snapshotLocked()
	e.mu.Unlock()

	return snap
}

// Tick recomputes the remaining time of a running phase and performs any
// transitions that are due. State is persisted only when a transition
// happened.
func (e *Engine) Tick() State {
	e.mu.Lock()

	if e.state.IsRunning {
		seq := e.state.TransitionSeq

		e.advanceLocked(e.now())

		if e.state.TransitionSeq != seq {
			e.saveLocked()
		}
	}

	snap := e.snapshotLocked()
	e.unlockAndDeliver()

	return snap
}

// Snapshot returns a copy of the current state with RemainingSeconds
// computed for the present instant. It never transitions.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.snapshotLocked()
}

// Resynced reports whether the last recovery gave up fast-forwarding and
// stopped the timer. It is cleared by Start and Reset.
func (e *Engine) Resynced() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.resynced
}

func (e *Engine) snapshotLocked() State {
	snap := e.state.Clone()
	snap.RemainingSeconds = snap.Remaining(e.now())

	return snap
}

// advanceLocked replays every transition due at now. When more than
// MaxCatchUp transitions would be needed the timer is stopped at the
// current phase boundary instead.
func (e *Engine) advanceLocked(now time.Time) {
	s := &e.state

	for i := 0; ; i++ {
		if !s.IsRunning || s.Elapsed(now) < float64(s.TotalSeconds) {
			s.RemainingSeconds = s.Remaining(now)
			return
		}

		if i >= MaxCatchUp {
			e.resyncLocked(now)
			return
		}

		boundary := s.phaseEnd()
		e.transitionLocked(boundary, now.Sub(boundary) > staleTransition)
	}
}

func (e *Engine) transitionLocked(boundary time.Time, catchUp bool) {
	s := &e.state

	rec := &SessionRecord{
		Phase:           s.Mode,
		DurationMinutes: s.TotalSeconds / 60,
		CompletedAt:     boundary,
	}

	var autoStart bool

	switch s.Mode {
	case Focus:
		e.emitLocked(FocusEnded, boundary, catchUp, rec)

		s.Mode = Break
		s.TotalSeconds = phaseSeconds(s.Preset.BreakMinutes)
		autoStart = e.policy.AutoStartBreak
	case Break:
		e.emitLocked(BreakEnded, boundary, catchUp, rec)

		if s.CurrentCycle >= s.MaxCycles {
			e.emitLocked(CycleCompleted, boundary, catchUp, nil)
			s.CurrentCycle = 1
		} else {
			s.CurrentCycle++
		}

		s.Mode = Focus
		s.TotalSeconds = phaseSeconds(s.Preset.FocusMinutes)
		autoStart = e.policy.AutoStartFocus
	}

	s.AccumulatedElapsedSeconds = 0
	s.RemainingSeconds = s.TotalSeconds
	e.announced = autoStart

	if !autoStart {
		s.Anchor = nil
		s.IsRunning = false

		return
	}

	anchor := boundary
	s.Anchor = &anchor
	s.IsRunning = true

	e.emitLocked(startedKind(s.Mode), boundary, catchUp, nil)
}

func (e *Engine) resyncLocked(now time.Time) {
	s := &e.state

	s.Anchor = nil
	s.IsRunning = false
	s.AccumulatedElapsedSeconds = 0
	s.RemainingSeconds = s.TotalSeconds
	e.resynced = true
	e.announced = false

	e.logger.Warn(
		"timer catch-up limit reached, stopping at current phase",
		slog.String("mode", string(s.Mode)),
		slog.Int("cycle", s.CurrentCycle),
	)

	e.emitLocked(Resynchronized, now, true, nil)
}

func (e *Engine) emitLocked(
	kind EventKind,
	at time.Time,
	catchUp bool,
	rec *SessionRecord,
) {
	e.state.TransitionSeq++

	ev := Event{
		Kind:         kind,
		Mode:         e.state.Mode,
		Cycle:        e.state.CurrentCycle,
		MaxCycles:    e.state.MaxCycles,
		TotalSeconds: e.state.TotalSeconds,
		Seq:          e.state.TransitionSeq,
		At:           at,
		Record:       rec,
		CatchUp:      catchUp,
	}

	e.logger.Debug(
		"timer transition",
		slog.String("kind", string(kind)),
		slog.Uint64("seq", ev.Seq),
		slog.Bool("catch_up", catchUp),
	)

	e.pending = append(e.pending, ev)
}

func (e *Engine) saveLocked() {
	if e.store == nil {
		return
	}

	st := e.state.Clone()

	err := e.store.SaveTimer(&st)
	if err != nil {
		e.logger.Error(
			"failed to persist timer state",
			slog.Any("error", err),
		)
	}
}

func (e *Engine) drainLocked() []Event {
	events := e.pending
	e.pending = nil

	return events
}

// unlockAndDeliver releases mu and hands the pending events to the listener.
// Taking deliverMu first keeps a later call from overtaking this delivery.
func (e *Engine) unlockAndDeliver() {
	events := e.drainLocked()

	e.deliverMu.Lock()
	defer e.deliverMu.Unlock()

	e.mu.Unlock()

	if e.listener == nil {
		return
	}

	for _, ev := range events {
		e.listener.OnTransition(ev)
	}
}

func startedKind(m Mode) EventKind {
	if m == Break {
		return BreakStarted
	}

	return FocusStarted
}
