package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusflow/internal/dispatch"
	"github.com/ayoisaiah/focusflow/internal/engine"
)

type fakeEndpoint struct {
	seen   map[string]remoteSession
	auth   []string
	status int
	mu     sync.Mutex
}

func (f *fakeEndpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.auth = append(f.auth, r.Header.Get("Authorization"))

	var body remoteSession

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key != body.ID {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if _, ok := f.seen[key]; ok {
		w.WriteHeader(http.StatusConflict)
		return
	}

	f.seen[key] = body

	w.WriteHeader(f.status)
}

func TestHTTPRecorder(t *testing.T) {
	fake := &fakeEndpoint{seen: make(map[string]remoteSession), status: http.StatusCreated}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	r := NewHTTPRecorder(srv.URL, "secret", 600, srv.Client())
	ctx := context.Background()

	rec := engine.SessionRecord{
		Phase:           engine.Focus,
		DurationMinutes: 25,
		CompletedAt:     statsNow,
	}

	require.NoError(t, r.RecordSession(ctx, rec))
	require.NoError(t, r.RecordSession(ctx, rec))

	assert.Len(t, fake.seen, 1)
	assert.Equal(t, []string{"Bearer secret", "Bearer secret"}, fake.auth)

	got := fake.seen[RecordID(rec)]
	assert.Equal(t, engine.Focus, got.Phase)
	assert.Equal(t, 25, got.DurationMinutes)
	assert.True(t, got.CompletedAt.Equal(statsNow))
}

func TestHTTPRecorderStatusError(t *testing.T) {
	fake := &fakeEndpoint{seen: make(map[string]remoteSession), status: http.StatusBadGateway}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	r := NewHTTPRecorder(srv.URL, "", 0, srv.Client())

	err := r.RecordSession(context.Background(), engine.SessionRecord{
		Phase:           engine.Break,
		DurationMinutes: 5,
		CompletedAt:     statsNow,
	})

	assert.ErrorIs(t, err, errRemoteStatus)
	assert.Equal(t, []string{""}, fake.auth)
}

func TestHTTPRecorderHonoursContext(t *testing.T) {
	r := NewHTTPRecorder("http://127.0.0.1:1", "", 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.RecordSession(ctx, engine.SessionRecord{CompletedAt: statsNow})

	assert.Error(t, err)
}

type failingRecorder struct{}

func (failingRecorder) RecordSession(context.Context, engine.SessionRecord) error {
	return errors.New("offline")
}

func TestTeeRecordsToAll(t *testing.T) {
	db := newTestSQLite(t)
	rec := engine.SessionRecord{
		Phase:           engine.Focus,
		DurationMinutes: 25,
		CompletedAt:     statsNow,
	}

	err := Tee(failingRecorder{}, db).RecordSession(context.Background(), rec)

	assert.Error(t, err)

	got, err := db.Sessions(context.Background(), statsNow, statsNow)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCatchUpRecordsDoNotHoldUpExit(t *testing.T) {
	fake := &fakeEndpoint{seen: make(map[string]remoteSession), status: http.StatusCreated}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	local := newTestSQLite(t)
	recorder := Tee(local, NewHTTPRecorder(srv.URL, "", 30, srv.Client()))

	d := dispatch.New(
		dispatch.DefaultSettings(),
		dispatch.WithRecorder(recorder),
		dispatch.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	for i := range 10 {
		at := statsNow.Add(-time.Duration(i+1) * time.Hour)

		d.OnTransition(engine.Event{
			Kind:    engine.FocusEnded,
			Mode:    engine.Focus,
			Seq:     uint64(i + 1),
			At:      at,
			CatchUp: true,
			Record: &engine.SessionRecord{
				Phase:           engine.Focus,
				DurationMinutes: 25,
				CompletedAt:     at,
			},
		})
	}

	start := time.Now()

	d.Close(200 * time.Millisecond)

	assert.Less(t, time.Since(start), 3*time.Second)

	got, err := local.Sessions(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, got, 10)

	fake.mu.Lock()
	defer fake.mu.Unlock()

	assert.Less(t, len(fake.seen), 10)
}
