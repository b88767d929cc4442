// Package storage provides the client-local blob persistence port used
// by the user tool store and the usage ledger.
package storage

import (
	"errors"
	"sync"
)

var ErrStoreClosed = errors.New("storage is closed")

// Port reads and writes opaque blobs under fixed namespace keys.
// Read returns (nil, nil) when the key has never been written.
type Port interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Close() error
}

// MemoryPort is an in-memory Port for tests and ad-hoc sessions.
type MemoryPort struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	closed bool
}

func NewMemoryPort() *MemoryPort {
	return &MemoryPort{blobs: make(map[string][]byte)}
}

func (m *MemoryPort) Read(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}
	blob, ok := m.blobs[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), blob...), nil
}

func (m *MemoryPort) Write(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	m.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
