package store

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/timeutil"
)

// RecordSession stores a completed phase keyed by its completion time.
// Recording the same phase twice overwrites the earlier entry.
func (c *Client) RecordSession(
	_ context.Context,
	rec engine.SessionRecord,
) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return errEncodeRecord.Fmt("session").Wrap(err)
	}

	key := timeutil.ToKey(rec.CompletedAt)

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put(key, value)
	})
}

// Sessions returns the sessions completed within [start, end] in
// chronological order. A zero end means no upper bound.
func (c *Client) Sessions(
	ctx context.Context,
	start, end time.Time,
) ([]engine.SessionRecord, error) {
	var sessions []engine.SessionRecord

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(sessionBucket)).Cursor()
		minKey := timeutil.ToKey(start)

		var maxKey []byte
		if !end.IsZero() {
			maxKey = timeutil.ToKey(end)
		}

		for k, v := cur.Seek(minKey); k != nil; k, v = cur.Next() {
			if maxKey != nil && bytes.Compare(k, maxKey) > 0 {
				break
			}

			if err := ctx.Err(); err != nil {
				return err
			}

			var rec engine.SessionRecord

			err := json.Unmarshal(v, &rec)
			if err != nil {
				return err
			}

			sessions = append(sessions, rec)
		}

		return nil
	})

	return sessions, err
}

// DeleteSessions removes the sessions completed within [start, end] and
// reports how many were deleted.
func (c *Client) DeleteSessions(
	_ context.Context,
	start, end time.Time,
) (int, error) {
	var n int

	err := c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))
		cur := b.Cursor()
		maxKey := timeutil.ToKey(end)

		var keys [][]byte

		for k, _ := cur.Seek(timeutil.ToKey(start)); k != nil; k, _ = cur.Next() {
			if !end.IsZero() && bytes.Compare(k, maxKey) > 0 {
				break
			}

			keys = append(keys, append([]byte(nil), k...))
		}

		for _, k := range keys {
			err := b.Delete(k)
			if err != nil {
				return err
			}
		}

		n = len(keys)

		return nil
	})

	return n, err
}
