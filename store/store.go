// Package store persists the timer state and completed sessions in a BoltDB
// file
package store

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/focusflow/internal/osutil"
)

const (
	timerBucket   = "timer"
	sessionBucket = "sessions"
	metaBucket    = "meta"

	timerKey = "state"
)

var buckets = []string{timerBucket, sessionBucket, metaBucket}

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// DeleteAll removes the timer state and every recorded session.
func (c *Client) DeleteAll() error {
	return c.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			err := tx.DeleteBucket([]byte(name))
			if err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}

			_, err = tx.CreateBucket([]byte(name))
			if err != nil {
				return err
			}
		}

		return setVersion(tx, schemaVersion)
	})
}

// open creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	db, err := bolt.Open(
		pathToDB,
		osutil.FilePermission,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errFocusRunning
		}

		return nil, errOpenDB.Wrap(err)
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection. The parent directory
// is created if necessary.
func NewClient(dbPath string) (*Client, error) {
	err := os.MkdirAll(filepath.Dir(dbPath), osutil.DirPermission)
	if err != nil {
		return nil, errOpenDB.Wrap(err)
	}

	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			_, err := tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}

		return migrate(tx)
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
