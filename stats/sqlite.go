package stats

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/osutil"
	"github.com/ayoisaiah/focusflow/internal/timeutil"
)

var sessionsSchema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		phase TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		completed_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sessions_completed_at
		ON sessions (completed_at)`,
}

// SQLite keeps session records in a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	err := os.MkdirAll(filepath.Dir(path), osutil.DirPermission)
	if err != nil {
		return nil, errOpenSQLite.Fmt(path).Wrap(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errOpenSQLite.Fmt(path).Wrap(err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errOpenSQLite.Fmt(path).Wrap(err)
	}

	// writes from concurrent effects must not race for the file lock
	db.SetMaxOpenConns(1)

	for _, stmt := range sessionsSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errOpenSQLite.Fmt(path).Wrap(err)
		}
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// RecordSession inserts the record unless it was recorded before. The insert
// is completed even if ctx is cancelled while it waits for the connection.
func (s *SQLite) RecordSession(
	ctx context.Context,
	rec engine.SessionRecord,
) error {
	_, err := s.db.ExecContext(
		context.WithoutCancel(ctx),
		`INSERT OR IGNORE INTO sessions (id, phase, duration_minutes, completed_at)
		VALUES (?, ?, ?, ?)`,
		RecordID(rec),
		string(rec.Phase),
		rec.DurationMinutes,
		string(timeutil.ToKey(rec.CompletedAt)),
	)

	return err
}

func (s *SQLite) Sessions(
	ctx context.Context,
	start, end time.Time,
) ([]engine.SessionRecord, error) {
	query := `SELECT phase, duration_minutes, completed_at FROM sessions
	WHERE completed_at >= ?`
	args := []any{string(timeutil.ToKey(start))}

	if !end.IsZero() {
		query += " AND completed_at <= ?"
		args = append(args, string(timeutil.ToKey(end)))
	}

	query += " ORDER BY completed_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []engine.SessionRecord

	for rows.Next() {
		var (
			rec         engine.SessionRecord
			phase       string
			completedAt string
		)

		if err := rows.Scan(&phase, &rec.DurationMinutes, &completedAt); err != nil {
			return nil, err
		}

		rec.Phase = engine.Mode(phase)

		rec.CompletedAt, err = timeutil.FromKey(completedAt)
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, rec)
	}

	return sessions, rows.Err()
}

func (s *SQLite) DeleteSessions(
	ctx context.Context,
	start, end time.Time,
) (int, error) {
	query := "DELETE FROM sessions WHERE completed_at >= ?"
	args := []any{string(timeutil.ToKey(start))}

	if !end.IsZero() {
		query += " AND completed_at <= ?"
		args = append(args, string(timeutil.ToKey(end)))
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()

	return int(n), err
}
