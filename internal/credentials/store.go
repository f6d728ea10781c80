// Package credentials persists the token and user-info slots read by the
// library client.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	dbFileMode = 0o600
	dbDirMode  = 0o755

	openTimeout = time.Second
)

var slotsBucket = []byte("slots")

// ErrClosed is returned by a BoltStore after Close.
var ErrClosed = errors.New("credentials store closed")

// Store is a string key/value store. Missing keys read as "".
type Store interface {
	GetItem(key string) (string, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	Close() error
}

// BoltStore keeps slots in a single bucket of a bbolt database file.
type BoltStore struct {
	mu sync.RWMutex
	db *bolt.DB
}

// OpenBolt opens or creates the database at path. Another process holding the
// file makes OpenBolt fail after a short wait instead of blocking.
func OpenBolt(path string) (*BoltStore, error) {
	if path == "" {
		return nil, errors.New("credentials path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), dbDirMode); err != nil {
		return nil, fmt.Errorf("create credentials directory: %w", err)
	}
	db, err := bolt.Open(path, dbFileMode, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open credentials db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(slotsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create slots bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) GetItem(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return "", ErrClosed
	}
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		// Get returns memory owned by the transaction; string() copies it.
		value = string(tx.Bucket(slotsBucket).Get([]byte(key)))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("read slot %q: %w", key, err)
	}
	return value, nil
}

func (s *BoltStore) SetItem(key, value string) error {
	return s.update(key, func(b *bolt.Bucket) error {
		return b.Put([]byte(key), []byte(value))
	})
}

func (s *BoltStore) RemoveItem(key string) error {
	return s.update(key, func(b *bolt.Bucket) error {
		return b.Delete([]byte(key))
	})
}

func (s *BoltStore) update(key string, fn func(*bolt.Bucket) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(slotsBucket))
	})
	if err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	return nil
}

// Path returns the database file location.
func (s *BoltStore) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ""
	}
	return s.db.Path()
}

// Close releases the file lock. Calling it twice is harmless.
func (s *BoltStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
