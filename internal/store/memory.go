package store

import (
	"context"
	"sync"
)

type memoryEntry struct {
	data    []byte
	version int64
}

// Memory is an in-process Store used in tests and local development.
type Memory struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok {
		return nil, 0, false, nil
	}
	cp := make([]byte, len(e.data))
	copy(cp, e.data)
	return cp, e.version, true, nil
}

func (m *Memory) Put(_ context.Context, key string, data []byte, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := int64(0)
	if e, ok := m.data[key]; ok {
		current = e.version
	}
	if current != expectedVersion {
		return ErrVersionConflict
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.data[key] = memoryEntry{data: cp, version: current + 1}
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }
