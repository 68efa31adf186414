// Package boltstore persists session value snapshots in a bbolt database so
// widget state can survive a process restart. Each session owns one bucket;
// wire values are encoded as big-endian integer lists.
package boltstore

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/goliatone/go-liveform/pkg/widgetid"
)

// DB wraps a bbolt database holding per-session snapshot buckets.
type DB struct {
	db *bolt.DB
}

// Open opens (or creates) the snapshot database at path.
func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

// Close releases the underlying database.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Save writes a session's snapshot, replacing any previous one.
func (d *DB) Save(sessionID string, snapshot map[widgetid.ID][]int) error {
	if sessionID == "" {
		return fmt.Errorf("boltstore: session id is required")
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(sessionID)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(sessionID))
		if err != nil {
			return err
		}
		for id, wire := range snapshot {
			if err := bucket.Put([]byte(id), encodeWire(wire)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load reads a session's snapshot. A missing session yields an empty map.
func (d *DB) Load(sessionID string) (map[widgetid.ID][]int, error) {
	out := make(map[widgetid.ID][]int)
	err := d.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionID))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			wire, err := decodeWire(v)
			if err != nil {
				return fmt.Errorf("boltstore: widget %s: %w", k, err)
			}
			out[widgetid.ID(k)] = wire
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a session's snapshot.
func (d *DB) Delete(sessionID string) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(sessionID))
		if err == bolt.ErrBucketNotFound {
			return nil
		}
		return err
	})
}

func encodeWire(wire []int) []byte {
	buf := make([]byte, 8*len(wire))
	for i, v := range wire {
		binary.BigEndian.PutUint64(buf[i*8:], uint64(int64(v)))
	}
	return buf
}

func decodeWire(raw []byte) ([]int, error) {
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("malformed wire value of %d bytes", len(raw))
	}
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]int, len(raw)/8)
	for i := range out {
		out[i] = int(int64(binary.BigEndian.Uint64(raw[i*8:])))
	}
	return out, nil
}
