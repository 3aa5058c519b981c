package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/timeutil"
)

const schemaVersion = 2

var versionKey = []byte("version")

func version(tx *bolt.Tx) uint64 {
	v := tx.Bucket([]byte(metaBucket)).Get(versionKey)
	if len(v) != 8 {
		return 0
	}

	return binary.BigEndian.Uint64(v)
}

func setVersion(tx *bolt.Tx, v uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)

	return tx.Bucket([]byte(metaBucket)).Put(versionKey, buf)
}

// rekeySessions rewrites session keys that were stored with a variable
// width timestamp so that cursor range scans see them in order.
func rekeySessions(tx *bolt.Tx) error {
	bucket := tx.Bucket([]byte(sessionBucket))

	type entry struct {
		oldKey, newKey, value []byte
	}

	var moved []entry

	err := bucket.ForEach(func(k, v []byte) error {
		var rec engine.SessionRecord

		err := json.Unmarshal(v, &rec)
		if err != nil {
			return err
		}

		newKey := timeutil.ToKey(rec.CompletedAt)
		if !bytes.Equal(k, newKey) {
			moved = append(moved, entry{
				oldKey: append([]byte(nil), k...),
				newKey: newKey,
				value:  append([]byte(nil), v...),
			})
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, e := range moved {
		err = bucket.Delete(e.oldKey)
		if err != nil {
			return err
		}

		err = bucket.Put(e.newKey, e.value)
		if err != nil {
			return err
		}
	}

	return nil
}

func migrate(tx *bolt.Tx) error {
	if version(tx) >= schemaVersion {
		return nil
	}

	err := rekeySessions(tx)
	if err != nil {
		return err
	}

	return setVersion(tx, schemaVersion)
}
