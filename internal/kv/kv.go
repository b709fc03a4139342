// internal/kv/kv.go
//
// Generic key-value persistence.
// The scoring engine never touches storage; the host keeps finished games
// and theme colours here under fixed keys.
//
// Implementations:
//   - SQLite (sqlite.go): durable, backed by the `kv` table.
//   - Memory (this file): map + RWMutex, for tests and ephemeral runs.

package kv

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("kv: not found")

// Store is a flat byte-valued key-value store.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put creates or replaces the value under key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu   sync.RWMutex      // guards data
	data map[string][]byte // values are private copies
}

// NewMemory constructs an empty in-memory Store.
func NewMemory() Store {
	return &memory{data: make(map[string][]byte)}
}

func (m *memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memory) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
