package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is an in-process snapshot store: one slot per key, guarded by
// a mutex. The clock is injectable so tests can control expiry.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	nowFunc func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		nowFunc: time.Now,
	}
}

// WithClock replaces the time source. Test hook.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.nowFunc = now
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || !m.nowFunc().Before(e.expiresAt) {
		return nil, false, nil
	}

	data := make([]byte, len(e.data))
	copy(data, e.data)
	return data, true, nil
}

func (m *Memory) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	m.entries[key] = entry{data: stored, expiresAt: m.nowFunc().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

var _ Store = (*Memory)(nil)
