package store

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by KV.Get for keys that were never set or were removed
var ErrNotFound = errors.New("key not found")

// KV is the durable key-value capability the alarm engine persists through
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// MemoryKV is a process-local KV, used by tests and as a fallback when no durable store is available
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryKV creates an empty MemoryKV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
