package engine

import (
	"math"
	"time"

	"github.com/ayoisaiah/focusflow/internal/preset"
)

// Mode is the phase that is counting down.
type Mode string

const (
	Focus Mode = "focus"
	Break Mode = "break"
)

// Status is the externally visible engine state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// minPhaseSeconds is the shortest phase the engine will count down. Phases
// derived from a zero or negative duration are stretched to this length.
const minPhaseSeconds = 60

// State is the durable timer state. RemainingSeconds is derived from the
// anchor and accumulated time whenever the timer is running.
type State struct {
	// Anchor is the wall-clock instant at which the current running interval
	// began. It is nil whenever the timer is not running.
	Anchor *time.Time
	Preset preset.Preset
	Mode   Mode
	// TotalSeconds is the length of the current phase, fixed when the phase
	// starts.
	TotalSeconds     int
	RemainingSeconds int
	// AccumulatedElapsedSeconds holds the time banked from previous running
	// intervals of the current phase.
	AccumulatedElapsedSeconds float64
	CurrentCycle              int
	MaxCycles                 int
	// TransitionSeq is the sequence number of the last emitted event.
	TransitionSeq uint64
	IsRunning     bool
}

func newState(p preset.Preset) State {
	total := phaseSeconds(p.FocusMinutes)

	return State{
		Preset:           p,
		Mode:             Focus,
		TotalSeconds:     total,
		RemainingSeconds: total,
		CurrentCycle:     1,
		MaxCycles:        p.Cycles,
	}
}

// Status derives the engine status from the state.
func (s *State) Status() Status {
	switch {
	case s.IsRunning:
		return StatusRunning
	case s.AccumulatedElapsedSeconds == 0:
		return StatusIdle
	default:
		return StatusPaused
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() State {
	c := *s

	if s.Anchor != nil {
		anchor := *s.Anchor
		c.Anchor = &anchor
	}

	return c
}

// Elapsed returns the number of seconds of the current phase that have
// elapsed at the given instant.
func (s *State) Elapsed(now time.Time) float64 {
	elapsed := s.AccumulatedElapsedSeconds

	if s.IsRunning && s.Anchor != nil {
		// a clock that moved backwards must not add negative time
		elapsed += math.Max(0, now.Sub(*s.Anchor).Seconds())
	}

	return elapsed
}

// Remaining returns the whole seconds left in the current phase at the given
// instant, clamped to [0, TotalSeconds].
func (s *State) Remaining(now time.Time) int {
	left := float64(s.TotalSeconds) - s.Elapsed(now)
	if left <= 0 {
		return 0
	}

	return min(int(math.Ceil(left)), s.TotalSeconds)
}

// phaseEnd returns the instant at which the running phase reaches zero.
func (s *State) phaseEnd() time.Time {
	left := float64(s.TotalSeconds) - s.AccumulatedElapsedSeconds

	return s.Anchor.Add(time.Duration(left * float64(time.Second)))
}

// sanitize repairs a state read back from storage so that every range constraint
// holds before the engine starts working with it.
func sanitize(s State) State {
	s.Preset = preset.Normalize(s.Preset)
	s.MaxCycles = s.Preset.Cycles

	if s.Mode != Focus && s.Mode != Break {
		s.Mode = Focus
	}

	if s.TotalSeconds <= 0 {
		s.TotalSeconds = minPhaseSeconds
	}

	s.CurrentCycle = min(max(s.CurrentCycle, 1), s.MaxCycles)

	if s.Anchor == nil {
		s.IsRunning = false
	}

	if !s.IsRunning {
		s.Anchor = nil
	}

	s.AccumulatedElapsedSeconds = math.Min(
		math.Max(s.AccumulatedElapsedSeconds, 0),
		float64(s.TotalSeconds),
	)

	return s
}

func phaseSeconds(minutes int) int {
	secs := minutes * 60
	if secs <= 0 {
		return minPhaseSeconds
	}

	return secs
}
