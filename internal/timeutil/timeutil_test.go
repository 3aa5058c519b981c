package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "08:00", want: 480},
		{in: "22:30", want: 1350},
		{in: " 23:59 ", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseClock(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPeriodStart(t *testing.T) {
	// Wednesday
	now := time.Date(2025, time.March, 12, 15, 4, 5, 0, time.UTC)

	cases := map[Period]time.Time{
		PeriodToday:     time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC),
		PeriodWeek:      time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC),
		PeriodMonth:     time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		PeriodSixMonths: time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC),
		PeriodYear:      time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		PeriodAllTime:   {},
	}

	for period, want := range cases {
		assert.Equal(t, want, PeriodStart(period, now), string(period))
	}
}

func TestSecsToMinsAndSecs(t *testing.T) {
	m, s := SecsToMinsAndSecs(299.2)
	assert.Equal(t, 5, m)
	assert.Equal(t, 0, s)

	m, s = SecsToMinsAndSecs(-3)
	assert.Zero(t, m)
	assert.Zero(t, s)
}

func TestKeysSortChronologically(t *testing.T) {
	base := time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)
	earlier := ToKey(base)
	later := ToKey(base.Add(500 * time.Millisecond))

	assert.Less(t, string(earlier), string(later))

	parsed, err := FromKey(string(later))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(base.Add(500*time.Millisecond)))
}

func TestFromStr(t *testing.T) {
	now := time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)

	got, err := FromStr("2025-03-10", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", DayKey(got))

	got, err = FromStr("3 days ago", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", DayKey(got))

	_, err = FromStr("qwxz", now)
	assert.Error(t, err)
}
