package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store with the same quota semantics as the
// SQLite store. Used by tests and available as a throwaway backend.
type MemoryStore struct {
	mu    sync.Mutex
	quota int64
	data  map[string][]byte
}

// NewMemory returns an empty in-memory store bounded by quota bytes.
func NewMemory(quota int64) *MemoryStore {
	return &MemoryStore{quota: quota, data: make(map[string][]byte)}
}

// Load returns the payload stored under key.
func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Save replaces the payload under key, enforcing the quota.
func (m *MemoryStore) Save(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var others int64
	for k, v := range m.data {
		if k != key {
			others += int64(len(v))
		}
	}
	if others+int64(len(payload)) > m.quota {
		return ErrCapacityExceeded
	}
	stored := make([]byte, len(payload))
	copy(stored, payload)
	m.data[key] = stored
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
