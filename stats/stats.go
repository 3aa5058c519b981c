// Package stats records completed focus and break sessions and reports
// aggregated statistics about them
package stats

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/timeutil"
)

// Backend selects where session records are written.
type Backend string

const (
	BackendBolt   Backend = "bolt"
	BackendSQLite Backend = "sqlite"
	BackendHTTP   Backend = "http"
)

// Backends lists the supported backends.
var Backends = []Backend{BackendBolt, BackendSQLite, BackendHTTP}

type (
	// Recorder stores completed sessions. Recording the same session twice
	// must not produce two entries.
	Recorder interface {
		RecordSession(ctx context.Context, rec engine.SessionRecord) error
	}

	// Source returns the sessions completed within [start, end]. A zero
	// end means no upper bound.
	Source interface {
		Sessions(
			ctx context.Context,
			start, end time.Time,
		) ([]engine.SessionRecord, error)
	}

	// Pruner deletes the sessions completed within [start, end].
	Pruner interface {
		DeleteSessions(ctx context.Context, start, end time.Time) (int, error)
	}
)

// recordNamespace scopes the name-based UUIDs of session records.
var recordNamespace = uuid.MustParse("8d1f3b52-6c0e-4f7a-9b21-53e4a0c7d9f6")

// RecordID returns a stable identifier for a session record. The same phase
// completing at the same instant always yields the same ID.
func RecordID(rec engine.SessionRecord) string {
	name := string(timeutil.ToKey(rec.CompletedAt)) + "|" + string(rec.Phase)

	return uuid.NewSHA1(recordNamespace, []byte(name)).String()
}

type tee []Recorder

// Tee returns a recorder that writes every record to each of recorders. All
// recorders are attempted even if one fails.
func Tee(recorders ...Recorder) Recorder {
	return tee(recorders)
}

func (t tee) RecordSession(ctx context.Context, rec engine.SessionRecord) error {
	var errs []error

	for _, r := range t {
		err := r.RecordSession(ctx, rec)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Query selects the sessions to summarize. An explicit Start overrides the
// period.
type Query struct {
	Start  time.Time
	End    time.Time
	Period timeutil.Period
}

// Bounds resolves the query against now.
func (q Query) Bounds(now time.Time) (start, end time.Time) {
	if !q.Start.IsZero() {
		end = q.End
		if end.IsZero() {
			end = now
		}

		return q.Start, end
	}

	return timeutil.PeriodStart(q.Period, now), now
}

// ValidPeriod reports whether p is one of the supported periods.
func ValidPeriod(p timeutil.Period) bool {
	return slices.Contains(timeutil.PeriodCollection, p)
}
