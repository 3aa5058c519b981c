package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusflow/internal/engine"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "stats", "stats.sqlite"))
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestSQLiteRecordIsIdempotent(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	for _, rec := range sampleSessions() {
		require.NoError(t, db.RecordSession(ctx, rec))
		require.NoError(t, db.RecordSession(ctx, rec))
	}

	got, err := db.Sessions(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, got, len(sampleSessions()))

	for i, want := range sampleSessions() {
		assert.Equal(t, want.Phase, got[i].Phase)
		assert.Equal(t, want.DurationMinutes, got[i].DurationMinutes)
		assert.True(t, want.CompletedAt.Equal(got[i].CompletedAt))
	}
}

func TestSQLiteRangeAndDelete(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	for _, rec := range sampleSessions() {
		require.NoError(t, db.RecordSession(ctx, rec))
	}

	march, err := db.Sessions(ctx, at(2025, time.March, 1, 0, 0), at(2025, time.March, 11, 23, 59))
	require.NoError(t, err)
	assert.Len(t, march, 3)

	n, err := db.DeleteSessions(ctx, at(2025, time.March, 12, 0, 0), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := db.Sessions(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, left, 5)
}

func TestRecordIDIsStable(t *testing.T) {
	rec := engine.SessionRecord{
		Phase:           engine.Focus,
		DurationMinutes: 25,
		CompletedAt:     statsNow,
	}

	assert.Equal(t, RecordID(rec), RecordID(rec))

	// the same instant in another zone is the same session
	other := rec
	other.CompletedAt = statsNow.In(time.FixedZone("WAT", 3600))
	assert.Equal(t, RecordID(rec), RecordID(other))

	other.Phase = engine.Break
	assert.NotEqual(t, RecordID(rec), RecordID(other))
}
