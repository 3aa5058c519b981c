package timer

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/preset"
)

var statusNow = time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)

func TestStatusLine(t *testing.T) {
	cases := []struct {
		name   string
		status Status
		at     time.Time
		want   string
	}{
		{
			name: "running focus counts down from the end time",
			status: Status{
				EndTime:   statusNow.Add(10 * time.Minute),
				Mode:      engine.Focus,
				State:     engine.StatusRunning,
				Cycle:     2,
				MaxCycles: 4,
			},
			at:   statusNow.Add(30 * time.Second),
			want: "[Focus 2/4]: 09:30",
		},
		{
			name: "paused break keeps its remaining time",
			status: Status{
				Mode:             engine.Break,
				State:            engine.StatusPaused,
				RemainingSeconds: 125,
				Cycle:            1,
				MaxCycles:        4,
			},
			at:   statusNow.Add(time.Hour),
			want: "[Break 1/4]: 02:05 (paused)",
		},
		{
			name: "elapsed phase never goes negative",
			status: Status{
				EndTime:   statusNow,
				Mode:      engine.Focus,
				State:     engine.StatusRunning,
				Cycle:     1,
				MaxCycles: 4,
			},
			at:   statusNow.Add(time.Minute),
			want: "[Focus 1/4]: 00:00",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.status.Line(tc.at))
		})
	}
}

func TestNewStatusIdle(t *testing.T) {
	eng := engine.New(preset.Default(), engine.WithClock(func() time.Time {
		return statusNow
	}))

	s := NewStatus(eng.Snapshot(), statusNow)

	assert.True(t, s.EndTime.IsZero())
	assert.Equal(t, engine.StatusIdle, s.State)
	assert.Equal(t, 1500, s.RemainingSeconds)
	assert.Equal(t, "Pomodoro", s.Preset)
	assert.Equal(t, "[Focus 1/4]: 25:00 (idle)", s.Line(statusNow))
}

func TestStatusFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")

	missing, err := ReadStatus(path)
	require.NoError(t, err)
	assert.Nil(t, missing)

	want := Status{
		EndTime:   statusNow.Add(5 * time.Minute),
		UpdatedAt: statusNow,
		Preset:    "Pomodoro",
		Mode:      engine.Break,
		State:     engine.StatusRunning,
		Cycle:     3,
		MaxCycles: 4,
	}

	require.NoError(t, WriteStatus(path, want))

	got, err := ReadStatus(path)
	require.NoError(t, err)
	assert.True(t, want.EndTime.Equal(got.EndTime))
	assert.Equal(t, want.Cycle, got.Cycle)
	assert.Equal(t, want.Mode, got.Mode)

	var out bytes.Buffer

	require.NoError(t, ReportStatus(&out, path, statusNow))
	assert.Equal(t, "[Break 3/4]: 05:00\n", out.String())
}
