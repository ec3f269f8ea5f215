package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/statusgate/statusgate/internal/status"
)

// Repository stores status snapshots.
type Repository interface {
	// Insert stores a snapshot.
	Insert(ctx context.Context, snapshot Snapshot) error

	// List returns the most recent snapshots, newest first, at most limit.
	List(ctx context.Context, limit int) ([]Snapshot, error)

	// Latest returns the most recent snapshot, or ErrNoSnapshots.
	Latest(ctx context.Context) (Snapshot, error)
}

// Recorder adapts a Repository to the status service's SnapshotRecorder.
type Recorder struct {
	repo Repository
	now  func() time.Time
}

// NewRecorder creates a Recorder backed by the given repository.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo, now: time.Now}
}

// Record implements status.SnapshotRecorder.
func (r *Recorder) Record(ctx context.Context, provider string, summary status.Summary) error {
	return r.repo.Insert(ctx, Snapshot{
		ID:        "snap_" + uuid.New().String(),
		Provider:  provider,
		Summary:   summary,
		FetchedAt: r.now(),
	})
}
