package db

import (
	"context"
	"sync"
)

// Memory is a process-local Medium. Nothing survives the process.
type Memory struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemory returns an empty in-memory medium
func NewMemory() *Memory {
	return &Memory{slots: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

func (m *Memory) Close() error { return nil }
