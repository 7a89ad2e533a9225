package answercache

import (
	"encoding/binary"
	"time"

	bbolt "go.etcd.io/bbolt"
)

var bucketAnswers = []byte("answers")

// BoltStore is the production KVStore backend: a single-file embedded
// database. bbolt has no native per-key TTL, so every value is stored as
// an 8-byte big-endian Unix expiry timestamp followed by the payload;
// Get treats an entry whose timestamp has passed as a miss and deletes it
// lazily, mirroring the lazy-expiry-on-read approach the rest of this
// codebase already uses for resource-record TTLs.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) a bbolt database at path and ensures the
// answers bucket exists.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketAnswers)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

// Close releases the underlying database file handle.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Get implements KVStore.
func (s *BoltStore) Get(key string) ([]byte, bool) {
	var value []byte
	var expired bool

	_ = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAnswers)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(key))
		if v == nil {
			return nil
		}
		expiresAt, payload, ok := decodeEntry(v)
		if !ok {
			return nil
		}
		if time.Now().Unix() >= expiresAt {
			expired = true
			return nil
		}
		value = append([]byte(nil), payload...)
		return nil
	})

	if value == nil {
		if expired {
			s.deleteKey(key)
		}
		return nil, false
	}
	return value, true
}

// SetIfAbsent implements KVStore.
func (s *BoltStore) SetIfAbsent(key string, value []byte, ttl time.Duration) (bool, error) {
	stored := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketAnswers)
		if err != nil {
			return err
		}
		if existing := b.Get([]byte(key)); existing != nil {
			if expiresAt, _, ok := decodeEntry(existing); ok && time.Now().Unix() < expiresAt {
				return nil // unexpired entry present: do not overwrite
			}
		}
		entry := encodeEntry(time.Now().Add(ttl).Unix(), value)
		stored = true
		return b.Put([]byte(key), entry)
	})
	return stored, err
}

// Clear implements KVStore.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketAnswers); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketAnswers)
		return err
	})
}

// Sweep deletes every entry whose TTL has already elapsed, including
// expired keys that are never read again. Nothing in this repository runs
// it on a schedule; expired keys otherwise leave the file only when Get
// reads them.
func (s *BoltStore) Sweep() (removed int, err error) {
	now := time.Now().Unix()
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAnswers)
		if b == nil {
			return nil
		}
		var stale [][]byte
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			expiresAt, _, ok := decodeEntry(v)
			if ok && now >= expiresAt {
				stale = append(stale, append([]byte(nil), k...))
			}
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

func (s *BoltStore) deleteKey(key string) {
	_ = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAnswers)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

func encodeEntry(expiresAtUnix int64, payload []byte) []byte {
	out := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint64(out[:8], uint64(expiresAtUnix))
	copy(out[8:], payload)
	return out
}

func decodeEntry(v []byte) (expiresAtUnix int64, payload []byte, ok bool) {
	if len(v) < 8 {
		return 0, nil, false
	}
	return int64(binary.BigEndian.Uint64(v[:8])), v[8:], true
}
