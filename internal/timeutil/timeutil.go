// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

const (
	minutesInAnHour = 60
	secondsInAMin   = 60
)

const HoursInADay = 24

type Period string

const (
	PeriodAllTime   Period = "all"
	PeriodToday     Period = "today"
	PeriodWeek      Period = "week"
	PeriodMonth     Period = "month"
	PeriodSixMonths Period = "6months"
	PeriodYear      Period = "year"
)

var PeriodCollection = []Period{
	PeriodAllTime,
	PeriodToday,
	PeriodWeek,
	PeriodMonth,
	PeriodSixMonths,
	PeriodYear,
}

// Round rounds a time value in seconds, minutes, or hours to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// SecsToMinsAndSecs expresses a seconds value in minutes and seconds.
func SecsToMinsAndSecs(val float64) (mins, secs int) {
	total := int(math.Ceil(val))
	if total < 0 {
		total = 0
	}

	return total / secondsInAMin, total % secondsInAMin
}

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	hrs = int(math.Floor(float64(val) / float64(minutesInAnHour)))
	mins = val % minutesInAnHour

	return
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}

// StartOfWeek returns the start of the Sunday that begins the week containing t.
func StartOfWeek(t time.Time) time.Time {
	day := RoundToStart(t)

	return day.AddDate(0, 0, -int(day.Weekday()))
}

// PeriodStart returns the earliest instant included in the period relative
// to now. The zero time is returned for PeriodAllTime.
func PeriodStart(period Period, now time.Time) time.Time {
	//nolint:exhaustive // all-time handled by default
	switch period {
	case PeriodToday:
		return RoundToStart(now)
	case PeriodWeek:
		return StartOfWeek(now)
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case PeriodSixMonths:
		return time.Date(
			now.Year(),
			now.Month()-6,
			1,
			0,
			0,
			0,
			0,
			now.Location(),
		)
	case PeriodYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
}

// DayKey formats t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// keyLayout is RFC 3339 with a fixed-width fraction so that keys sort in
// chronological order.
const keyLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ToKey converts a time value to a database key for Bolt.
func ToKey(t time.Time) []byte {
	return []byte(t.UTC().Format(keyLayout))
}

// FromKey parses a key produced by ToKey.
func FromKey(key string) (time.Time, error) {
	return time.Parse(keyLayout, key)
}

// ParseClock parses a 24-hour "HH:MM" value into minutes after midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock value %q: expected HH:MM", s)
	}

	hrs, err := strconv.Atoi(h)
	if err != nil || hrs < 0 || hrs >= HoursInADay {
		return 0, fmt.Errorf("invalid hour in clock value %q", s)
	}

	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins >= minutesInAnHour {
		return 0, fmt.Errorf("invalid minute in clock value %q", s)
	}

	return hrs*minutesInAnHour + mins, nil
}

// MinuteOfDay returns the number of minutes elapsed since midnight for t.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*minutesInAnHour + t.Minute()
}

// FromStr parses an absolute or relative date such as "2025-03-10" or
// "3 days ago". Relative values are resolved against now.
func FromStr(s string, now time.Time) (time.Time, error) {
	cfg := &dateparser.Configuration{
		CurrentTime:     now,
		DefaultTimezone: now.Location(),
	}

	dt, err := dateparser.Parse(cfg, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %q: %w", s, err)
	}

	return dt.Time, nil
}
