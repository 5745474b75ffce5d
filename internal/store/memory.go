package store

import (
	"context"
	"sync"
)

// Memory is an in-memory implementation of Store. This is intended for
// testing and single-process use. Production should use Redis or
// Postgres.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		values: make(map[string][]byte),
	}
}

// Get retrieves the value for a key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy
	cpy := make([]byte, len(v))
	copy(cpy, v)
	return cpy, nil
}

// Set stores a value under a key.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cpy := make([]byte, len(value))
	copy(cpy, value)
	m.values[key] = cpy
	return nil
}

// Delete removes a key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
