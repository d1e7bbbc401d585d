package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Memory is an in-process Store, used by tests and throwaway sessions.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// FailWrites makes every WriteAll fail with this error when set.
	FailWrites error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) ReadAll(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", key, ErrNotFound)
	}
	return slices.Clone(b), nil
}

func (m *Memory) WriteAll(_ context.Context, key string, data []byte) error {
	if _, err := sanitizeKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return fmt.Errorf("write %s: %w", key, m.FailWrites)
	}
	m.objects[key] = slices.Clone(data)
	return nil
}

func (m *Memory) Exists(_ context.Context, key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return fmt.Errorf("delete %s: %w", key, ErrNotFound)
	}
	delete(m.objects, key)
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
