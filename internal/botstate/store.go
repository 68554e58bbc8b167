package botstate

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

const offsetKey = "update_offset"

// Store persists the chat front-end's polling position so a restart does not
// replay updates that were already handled.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	bucket := []byte("botstate")
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: bucket,
	}, nil
}

// Offset returns the last persisted update id, zero when none was stored yet.
func (s *Store) Offset() (int64, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var offset int64
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(s.bucket).Get([]byte(offsetKey))
		if raw == nil {
			return nil
		}
		parsed, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return err
		}
		offset = parsed
		return nil
	})
	return offset, err
}

// SetOffset records the id of the last handled update.
func (s *Store) SetOffset(updateID int64) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(offsetKey), []byte(strconv.FormatInt(updateID, 10)))
	})
}

// Ping verifies the store is readable.
func (s *Store) Ping() error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(s.bucket) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
