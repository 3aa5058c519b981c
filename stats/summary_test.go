package stats

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/testutil"
	"github.com/ayoisaiah/focusflow/internal/timeutil"
)

// a Wednesday
var statsNow = time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func sampleSessions() []engine.SessionRecord {
	return []engine.SessionRecord{
		{Phase: engine.Focus, DurationMinutes: 45, CompletedAt: at(2024, time.January, 15, 9, 0)},
		{Phase: engine.Focus, DurationMinutes: 30, CompletedAt: at(2024, time.December, 20, 9, 0)},
		{Phase: engine.Focus, DurationMinutes: 25, CompletedAt: at(2025, time.March, 1, 9, 0)},
		{Phase: engine.Focus, DurationMinutes: 25, CompletedAt: at(2025, time.March, 10, 9, 0)},
		{Phase: engine.Focus, DurationMinutes: 50, CompletedAt: at(2025, time.March, 11, 9, 0)},
		{Phase: engine.Focus, DurationMinutes: 25, CompletedAt: at(2025, time.March, 12, 10, 0)},
		{Phase: engine.Break, DurationMinutes: 5, CompletedAt: at(2025, time.March, 12, 10, 5)},
	}
}

func TestSummarizeWeek(t *testing.T) {
	s := Summarize(sampleSessions(), Query{Period: timeutil.PeriodWeek}, statsNow)

	assert.Equal(t, 4, s.TotalSessions)
	assert.Equal(t, 3, s.FocusSessions)
	assert.Equal(t, 1, s.BreakSessions)
	assert.Equal(t, 100, s.TotalFocusMinutes)
	assert.Equal(t, 5, s.TotalBreakMinutes)
	assert.Equal(t, 33, s.AverageSessionLength)
	assert.Equal(t, 2, s.TodaySessions)
	assert.Equal(t, 4, s.WeekSessions)
	assert.Equal(t, 5, s.MonthSessions)
	assert.Equal(t, 6, s.SixMonthSessions)
	assert.Equal(t, 5, s.YearSessions)
	assert.Equal(t, 3, s.Streak)

	require.Len(t, s.LastSevenDays, 7)
	assert.Equal(t, "2025-03-06", s.LastSevenDays[0].Date)
	assert.Equal(t, "Wed", s.LastSevenDays[6].Weekday)
	assert.Equal(t, 25, s.LastSevenDays[6].FocusMinutes)
	assert.Equal(t, 5, s.LastSevenDays[6].BreakMinutes)
	assert.Equal(t, 2, s.LastSevenDays[6].Sessions)
}

func TestSummarizeAllTime(t *testing.T) {
	s := Summarize(sampleSessions(), Query{Period: timeutil.PeriodAllTime}, statsNow)

	assert.True(t, s.Start.IsZero())
	assert.Equal(t, 7, s.TotalSessions)
	assert.Equal(t, 6, s.FocusSessions)
	assert.Equal(t, 200, s.TotalFocusMinutes)
	assert.Equal(t, 33, s.AverageSessionLength)
}

func TestSummarizeCustomRange(t *testing.T) {
	q := Query{
		Period: timeutil.PeriodToday,
		Start:  at(2024, time.December, 1, 0, 0),
		End:    at(2025, time.March, 2, 0, 0),
	}

	s := Summarize(sampleSessions(), q, statsNow)

	assert.Empty(t, s.Period)
	assert.Equal(t, 2, s.TotalSessions)
	assert.Equal(t, 55, s.TotalFocusMinutes)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, Query{Period: timeutil.PeriodMonth}, statsNow)

	assert.Zero(t, s.TotalSessions)
	assert.Zero(t, s.AverageSessionLength)
	assert.Zero(t, s.Streak)
	assert.Len(t, s.LastSevenDays, 7)
}

func TestStreakNeedsToday(t *testing.T) {
	sessions := []engine.SessionRecord{
		{Phase: engine.Focus, DurationMinutes: 25, CompletedAt: at(2025, time.March, 11, 9, 0)},
		{Phase: engine.Focus, DurationMinutes: 25, CompletedAt: at(2025, time.March, 10, 9, 0)},
	}

	s := Summarize(sessions, Query{Period: timeutil.PeriodAllTime}, statsNow)

	assert.Zero(t, s.Streak)
}

func TestPrintJSON(t *testing.T) {
	s := Summarize(sampleSessions(), Query{Period: timeutil.PeriodWeek}, statsNow)

	var buf bytes.Buffer

	require.NoError(t, Print(&buf, &s, FormatJSON))

	testutil.CompareGoldenFile(t, testutil.Golden{
		Name: "summary_week_json",
		Out:  buf.Bytes(),
	})
}

func TestPrintYAML(t *testing.T) {
	s := Summarize(sampleSessions(), Query{Period: timeutil.PeriodWeek}, statsNow)

	var buf bytes.Buffer

	require.NoError(t, Print(&buf, &s, FormatYAML))

	var got map[string]any

	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 4, got["total_sessions"])
	assert.Equal(t, "week", got["period"])
	assert.Contains(t, buf.String(), "last_seven_days:")
}
