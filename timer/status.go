package timer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/osutil"
)

// Status is a snapshot of the timer written to the status file on every
// tick. Other processes read it to report on the timer while the database
// is held by the running instance.
type Status struct {
	// EndTime is when the running phase reaches zero. It is zero while the
	// timer is not running.
	EndTime          time.Time     `json:"end_time"`
	UpdatedAt        time.Time     `json:"updated_at"`
	Preset           string        `json:"preset"`
	Mode             engine.Mode   `json:"mode"`
	State            engine.Status `json:"state"`
	RemainingSeconds int           `json:"remaining_seconds"`
	Cycle            int           `json:"cycle"`
	MaxCycles        int           `json:"max_cycles"`
}

// NewStatus derives the status of s at the given instant.
func NewStatus(s engine.State, now time.Time) Status {
	st := Status{
		UpdatedAt:        now,
		Preset:           s.Preset.Name,
		Mode:             s.Mode,
		State:            s.Status(),
		RemainingSeconds: s.Remaining(now),
		Cycle:            s.CurrentCycle,
		MaxCycles:        s.MaxCycles,
	}

	if s.IsRunning {
		st.EndTime = now.Add(time.Duration(st.RemainingSeconds) * time.Second)
	}

	return st
}

// RemainingAt returns the seconds left at now. A running phase counts down
// from its end time so that a stale file still reports correctly.
func (s Status) RemainingAt(now time.Time) int {
	if s.EndTime.IsZero() {
		return s.RemainingSeconds
	}

	left := s.EndTime.Sub(now).Seconds()
	if left <= 0 {
		return 0
	}

	return int(math.Ceil(left))
}

// Line renders the status as a single line such as "[Focus 2/4]: 12:34".
func (s Status) Line(now time.Time) string {
	label := "Focus"
	if s.Mode == engine.Break {
		label = "Break"
	}

	left := s.RemainingAt(now)

	line := fmt.Sprintf(
		"[%s %d/%d]: %02d:%02d",
		label,
		s.Cycle,
		s.MaxCycles,
		left/60,
		left%60,
	)

	switch s.State {
	case engine.StatusPaused:
		line += " (paused)"
	case engine.StatusIdle:
		line += " (idle)"
	}

	return line
}

// WriteStatus replaces the status file.
func WriteStatus(path string, s Status) error {
	b, err := json.Marshal(s)
	if err != nil {
		return errWriteStatus.Wrap(err)
	}

	err = os.WriteFile(path, b, osutil.FilePermission)
	if err != nil {
		return errWriteStatus.Wrap(err)
	}

	return nil
}

// ReadStatus returns the status file contents. A missing file yields nil
// without an error.
func ReadStatus(path string) (*Status, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, errReadStatus.Wrap(err)
	}

	var s Status

	if err := json.Unmarshal(b, &s); err != nil {
		return nil, errReadStatus.Wrap(err)
	}

	return &s, nil
}

// ReportStatus prints the status recorded by a running timer. Nothing is
// printed if the file is missing.
func ReportStatus(w io.Writer, path string, now time.Time) error {
	s, err := ReadStatus(path)
	if err != nil || s == nil {
		return err
	}

	_, err = fmt.Fprintln(w, s.Line(now))

	return err
}
