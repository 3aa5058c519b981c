package engine

import "time"

// EventKind identifies a state transition.
type EventKind string

const (
	FocusStarted   EventKind = "focus_started"
	FocusEnded     EventKind = "focus_ended"
	BreakStarted   EventKind = "break_started"
	BreakEnded     EventKind = "break_ended"
	CycleCompleted EventKind = "cycle_completed"
	// Resynchronized is emitted when recovery gave up fast-forwarding and
	// stopped the timer at the current phase boundary.
	Resynchronized EventKind = "resynchronized"
)

// SessionRecord describes a completed phase.
type SessionRecord struct {
	CompletedAt     time.Time `json:"completedAt"`
	Phase           Mode      `json:"phase"`
	DurationMinutes int       `json:"durationMinutes"`
}

// Event is a transition notification delivered to the Listener.
type Event struct {
	At time.Time
	// Record is set on FocusEnded and BreakEnded.
	Record *SessionRecord
	Kind   EventKind
	Mode   Mode
	// Cycle is the cycle the event belongs to. For BreakEnded it is the
	// cycle that just finished.
	Cycle     int
	MaxCycles int
	// TotalSeconds is the length of the phase named by Mode.
	TotalSeconds int
	// Seq increases monotonically across the lifetime of the stored state.
	Seq uint64
	// CatchUp marks transitions that happened while nothing was observing
	// the timer, such as those replayed on recovery.
	CatchUp bool
}

// Listener receives transition events. It is invoked outside the engine's
// state lock but must not block or call back into the engine.
type Listener interface {
	OnTransition(ev Event)
}
