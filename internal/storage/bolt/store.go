// Package bolt implements the storage.KV port on a bbolt database file.
//
// A single file holds the whole session, so concurrent lapwatch processes
// exclude each other through bbolt's file lock: a second process opening
// the same file gets a timeout error instead of silently interleaving
// writes.
package bolt

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"git.home.luguber.info/inful/lapwatch/internal/storage"
)

const bucketName = "session"

// Store is a storage.KV backed by a bbolt file.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the database at path. It fails after one
// second if another process holds the file lock.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("session db path is required")
	}

	path = filepath.Clean(path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session db directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureBucket(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureBucket() error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		return fmt.Errorf("create session bucket: %w", err)
	}
	return nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.db.Path()
}

func (s *Store) put(key string, value []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (s *Store) get(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if raw == nil {
			return storage.ErrNotFound
		}
		out = make([]byte, len(raw))
		copy(out, raw)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) SetNumber(key string, value float64) error {
	return s.put(key, []byte(strconv.FormatFloat(value, 'g', -1, 64)))
}

func (s *Store) Number(key string) (float64, error) {
	raw, err := s.get(key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("decode number at %q: %w", key, err)
	}
	return v, nil
}

func (s *Store) SetBool(key string, value bool) error {
	return s.put(key, []byte(strconv.FormatBool(value)))
}

func (s *Store) Bool(key string) (bool, error) {
	raw, err := s.get(key)
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(string(raw))
	if err != nil {
		return false, fmt.Errorf("decode bool at %q: %w", key, err)
	}
	return v, nil
}

func (s *Store) SetBytes(key string, value []byte) error {
	return s.put(key, value)
}

func (s *Store) Bytes(key string) ([]byte, error) {
	return s.get(key)
}

func (s *Store) Delete(key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
