package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusflow/internal/engine"
)

type sliceSource []engine.SessionRecord

func (s sliceSource) Sessions(
	_ context.Context,
	start, end time.Time,
) ([]engine.SessionRecord, error) {
	var out []engine.SessionRecord

	for _, rec := range s {
		if rec.CompletedAt.Before(start) {
			continue
		}

		if !end.IsZero() && rec.CompletedAt.After(end) {
			continue
		}

		out = append(out, rec)
	}

	return out, nil
}

func newTestRouter() http.Handler {
	return NewRouter(
		sliceSource(sampleSessions()),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		func() time.Time { return statsNow },
	)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, http.NoBody))

	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestRouter(), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Len(t, rec.Header().Get("X-Request-ID"), 8)
}

func TestStatsEndpoint(t *testing.T) {
	rec := get(t, newTestRouter(), "/api/stats?period=today")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Stats Summary `json:"stats"`
	}

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Stats.TotalSessions)
	assert.Equal(t, 4, body.Stats.WeekSessions)
	assert.Equal(t, 3, body.Stats.Streak)
}

func TestStatsEndpointRejectsUnknownPeriod(t *testing.T) {
	rec := get(t, newTestRouter(), "/api/stats?period=fortnight")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "fortnight")
}

func TestSessionsEndpoint(t *testing.T) {
	cases := []struct {
		name   string
		target string
		status int
		count  int
	}{
		{"everything", "/api/sessions", http.StatusOK, 7},
		{"bare end date covers the day", "/api/sessions?start=2025-03-10&end=2025-03-11", http.StatusOK, 2},
		{"rfc3339 bounds", "/api/sessions?start=2025-03-12T10:00:00Z&end=2025-03-12T10:01:00Z", http.StatusOK, 1},
		{"empty window", "/api/sessions?start=2030-01-01", http.StatusOK, 0},
		{"bad date", "/api/sessions?start=yesterday", http.StatusBadRequest, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, newTestRouter(), tc.target)

			require.Equal(t, tc.status, rec.Code)

			if tc.status != http.StatusOK {
				return
			}

			var body struct {
				Sessions []engine.SessionRecord `json:"sessions"`
			}

			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Len(t, body.Sessions, tc.count)
			assert.NotContains(t, rec.Body.String(), "null")
		})
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	for _, rec := range sampleSessions() {
		require.NoError(t, db.RecordSession(ctx, rec))
	}

	var out bytes.Buffer

	n, err := Delete(ctx, db, db, time.Time{}, time.Time{}, strings.NewReader("no\n"), &out)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = Delete(ctx, db, db, at(2025, time.March, 1, 0, 0), time.Time{}, strings.NewReader("yes\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	left, err := db.Sessions(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, left, 2)
}
