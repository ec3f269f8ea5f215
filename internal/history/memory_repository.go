package history

import (
	"context"
	"sync"
)

// defaultMemoryCapacity bounds the in-memory snapshot buffer.
const defaultMemoryCapacity = 100

// MemoryRepository is an in-process Repository holding a bounded ring of the
// most recent snapshots. Used when no DATABASE_URL is configured, and in
// tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	snapshots []Snapshot
	capacity  int
}

// NewMemoryRepository creates an in-memory repository keeping at most
// capacity snapshots; capacity <= 0 uses the default of 100.
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryRepository{capacity: capacity}
}

// Insert implements Repository. The oldest snapshot is dropped once the
// buffer is full.
func (r *MemoryRepository) Insert(_ context.Context, snapshot Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots = append(r.snapshots, snapshot)
	if len(r.snapshots) > r.capacity {
		r.snapshots = r.snapshots[len(r.snapshots)-r.capacity:]
	}
	return nil
}

// List implements Repository.
func (r *MemoryRepository) List(_ context.Context, limit int) ([]Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.snapshots) {
		limit = len(r.snapshots)
	}

	// Newest first.
	result := make([]Snapshot, 0, limit)
	for i := len(r.snapshots) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.snapshots[i])
	}
	return result, nil
}

// Latest implements Repository.
func (r *MemoryRepository) Latest(_ context.Context) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.snapshots) == 0 {
		return Snapshot{}, ErrNoSnapshots
	}
	return r.snapshots[len(r.snapshots)-1], nil
}
