package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process Store backed by a mutex-guarded map.
// Expired entries are dropped lazily on read and during periodic sweeps.
type Memory struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	lastSweep time.Time

	// now is swapped out in tests.
	now func() time.Time
}

const memorySweepInterval = 5 * time.Minute

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || entry.expired(m.now()) {
		return nil, ErrNotFound
	}
	return entry.value, nil
}

// Set implements Store. The stored value is copied so later mutation of the
// caller's slice cannot corrupt the entry.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	now := m.now()
	entry := memoryEntry{value: stored}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.sweepLocked(now)
	m.mu.Unlock()
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Name implements Store.
func (m *Memory) Name() string {
	return "memory"
}

// Len returns the number of entries currently held, including expired ones
// not yet swept.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// sweepLocked removes expired entries. Caller must hold the write lock.
func (m *Memory) sweepLocked(now time.Time) {
	if now.Sub(m.lastSweep) < memorySweepInterval {
		return
	}
	m.lastSweep = now
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
		}
	}
}
