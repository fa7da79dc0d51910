package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryPersister keeps records as JSON in process memory.
type MemoryPersister struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{records: make(map[string][]byte)}
}

func (m *MemoryPersister) Load(_ context.Context, key string, v any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.records[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("failed to decode %s record: %w", key, err)
	}
	return true, nil
}

func (m *MemoryPersister) Save(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", key, err)
	}
	m.mu.Lock()
	m.records[key] = raw
	m.mu.Unlock()
	return nil
}

// Raw returns the stored JSON for key, for inspection in tests and /state.
func (m *MemoryPersister) Raw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.records[key]
	return raw, ok
}
