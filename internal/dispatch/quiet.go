package dispatch

import (
	"time"

	"github.com/ayoisaiah/focusflow/internal/timeutil"
)

// QuietHours is a daily window during which notifications are suppressed.
// Start and End are minutes after midnight and both are inclusive. A window
// whose start is after its end crosses midnight.
type QuietHours struct {
	Start   int
	End     int
	Enabled bool
}

// ParseQuietHours builds a window from two "HH:MM" values.
func ParseQuietHours(enabled bool, start, end string) (QuietHours, error) {
	s, err := timeutil.ParseClock(start)
	if err != nil {
		return QuietHours{}, err
	}

	e, err := timeutil.ParseClock(end)
	if err != nil {
		return QuietHours{}, err
	}

	return QuietHours{Enabled: enabled, Start: s, End: e}, nil
}

// Contains reports whether t falls inside an enabled window.
func (q QuietHours) Contains(t time.Time) bool {
	if !q.Enabled {
		return false
	}

	m := timeutil.MinuteOfDay(t)

	if q.Start <= q.End {
		return m >= q.Start && m <= q.End
	}

	return m >= q.Start || m <= q.End
}
