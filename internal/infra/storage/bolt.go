package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

const collectionsBucketName = "collections"

// BoltPort persists blobs in a single bbolt file, one key per
// collection. All keys share the collections bucket.
type BoltPort struct {
	mu     sync.RWMutex
	db     *bolt.DB
	path   string
	closed bool
}

func OpenBolt(path string) (*BoltPort, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure storage dir: %w", err)
	}
	options := &bolt.Options{Timeout: time.Second}
	db, err := bolt.Open(trimmed, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(collectionsBucketName))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure collections bucket: %w", err)
	}
	return &BoltPort{db: db, path: trimmed}, nil
}

func (p *BoltPort) Read(key string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrStoreClosed
	}
	var blob []byte
	err := p.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(collectionsBucketName))
		if bucket == nil {
			return fmt.Errorf("missing collections bucket")
		}
		if value := bucket.Get([]byte(key)); value != nil {
			blob = append([]byte(nil), value...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (p *BoltPort) Write(key string, data []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrStoreClosed
	}
	return p.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(collectionsBucketName))
		if bucket == nil {
			return fmt.Errorf("missing collections bucket")
		}
		if err := bucket.Put([]byte(key), data); err != nil {
			return fmt.Errorf("write collection %s: %w", key, err)
		}
		return nil
	})
}

func (p *BoltPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.db.Close()
}

// Path returns the backing file path.
func (p *BoltPort) Path() string { return p.path }
