package stats

import (
	"time"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/timeutil"
)

const recentDays = 7

// DayTotal is the time logged on a single calendar day.
type DayTotal struct {
	Date         string `json:"date" yaml:"date"`
	Weekday      string `json:"weekday" yaml:"weekday"`
	FocusMinutes int    `json:"focusMinutes" yaml:"focus_minutes"`
	BreakMinutes int    `json:"breakMinutes" yaml:"break_minutes"`
	Sessions     int    `json:"sessions" yaml:"sessions"`
}

// Summary holds the aggregated statistics for a reporting window. The
// per-period counters always cover their own period regardless of the
// selected window.
type Summary struct {
	Start                time.Time       `json:"start" yaml:"start"`
	End                  time.Time       `json:"end" yaml:"end"`
	Period               timeutil.Period `json:"period,omitempty" yaml:"period,omitempty"`
	LastSevenDays        []DayTotal      `json:"lastSevenDays" yaml:"last_seven_days"`
	TotalSessions        int             `json:"totalSessions" yaml:"total_sessions"`
	FocusSessions        int             `json:"focusSessions" yaml:"focus_sessions"`
	BreakSessions        int             `json:"breakSessions" yaml:"break_sessions"`
	TotalFocusMinutes    int             `json:"totalFocusMinutes" yaml:"total_focus_minutes"`
	TotalBreakMinutes    int             `json:"totalBreakMinutes" yaml:"total_break_minutes"`
	AverageSessionLength int             `json:"averageSessionLength" yaml:"average_session_length"`
	TodaySessions        int             `json:"todaySessions" yaml:"today_sessions"`
	WeekSessions         int             `json:"weekSessions" yaml:"week_sessions"`
	MonthSessions        int             `json:"monthSessions" yaml:"month_sessions"`
	SixMonthSessions     int             `json:"sixMonthSessions" yaml:"six_month_sessions"`
	YearSessions         int             `json:"yearSessions" yaml:"year_sessions"`
	Streak               int             `json:"streak" yaml:"streak"`
}

// Summarize aggregates sessions for the query. sessions should contain
// every recorded session so that the per-period counters and the streak are
// accurate.
func Summarize(
	sessions []engine.SessionRecord,
	q Query,
	now time.Time,
) Summary {
	start, end := q.Bounds(now)

	s := Summary{
		Start: start,
		End:   end,
	}

	if q.Start.IsZero() {
		s.Period = q.Period
	}

	since := map[timeutil.Period]*int{
		timeutil.PeriodToday:     &s.TodaySessions,
		timeutil.PeriodWeek:      &s.WeekSessions,
		timeutil.PeriodMonth:     &s.MonthSessions,
		timeutil.PeriodSixMonths: &s.SixMonthSessions,
		timeutil.PeriodYear:      &s.YearSessions,
	}

	days := make(map[string]*DayTotal, recentDays)
	today := timeutil.RoundToStart(now)

	for i := recentDays - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)

		s.LastSevenDays = append(s.LastSevenDays, DayTotal{
			Date:    timeutil.DayKey(d),
			Weekday: d.Weekday().String()[:3],
		})
	}

	for i := range s.LastSevenDays {
		days[s.LastSevenDays[i].Date] = &s.LastSevenDays[i]
	}

	active := make(map[string]bool)

	for _, rec := range sessions {
		at := rec.CompletedAt.In(now.Location())
		key := timeutil.DayKey(at)

		active[key] = true

		for p, counter := range since {
			if !at.Before(timeutil.PeriodStart(p, now)) {
				*counter++
			}
		}

		if day, ok := days[key]; ok {
			day.Sessions++

			if rec.Phase == engine.Focus {
				day.FocusMinutes += rec.DurationMinutes
			} else {
				day.BreakMinutes += rec.DurationMinutes
			}
		}

		if at.Before(start) || at.After(end) {
			continue
		}

		s.TotalSessions++

		if rec.Phase == engine.Focus {
			s.FocusSessions++
			s.TotalFocusMinutes += rec.DurationMinutes
		} else {
			s.BreakSessions++
			s.TotalBreakMinutes += rec.DurationMinutes
		}
	}

	if s.FocusSessions > 0 {
		s.AverageSessionLength = timeutil.Round(
			float64(s.TotalFocusMinutes) / float64(s.FocusSessions),
		)
	}

	s.Streak = streak(active, today)

	return s
}

// streak counts the consecutive days with at least one session, ending
// today.
func streak(active map[string]bool, today time.Time) int {
	var n int

	for d := today; active[timeutil.DayKey(d)]; d = d.AddDate(0, 0, -1) {
		n++
	}

	return n
}
