package history_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusgate/statusgate/internal/history"
	"github.com/statusgate/statusgate/internal/status"
)

func makeSnapshot(i int) history.Snapshot {
	return history.Snapshot{
		ID:        fmt.Sprintf("snap_%03d", i),
		Provider:  "upstream",
		Summary:   status.Summary{"seq": float64(i)},
		FetchedAt: time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC),
	}
}

func TestMemoryRepository_InsertAndList(t *testing.T) {
	repo := history.NewMemoryRepository(10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Insert(ctx, makeSnapshot(i)))
	}

	snapshots, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)

	// Newest first.
	assert.Equal(t, "snap_002", snapshots[0].ID)
	assert.Equal(t, "snap_000", snapshots[2].ID)
}

func TestMemoryRepository_ListLimit(t *testing.T) {
	repo := history.NewMemoryRepository(10)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, makeSnapshot(i)))
	}

	snapshots, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "snap_004", snapshots[0].ID)
	assert.Equal(t, "snap_003", snapshots[1].ID)
}

func TestMemoryRepository_CapacityEvictsOldest(t *testing.T) {
	repo := history.NewMemoryRepository(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, makeSnapshot(i)))
	}

	snapshots, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.Equal(t, "snap_004", snapshots[0].ID)
	assert.Equal(t, "snap_002", snapshots[2].ID)
}

func TestMemoryRepository_Latest(t *testing.T) {
	repo := history.NewMemoryRepository(10)
	ctx := context.Background()

	_, err := repo.Latest(ctx)
	assert.ErrorIs(t, err, history.ErrNoSnapshots)

	require.NoError(t, repo.Insert(ctx, makeSnapshot(1)))
	require.NoError(t, repo.Insert(ctx, makeSnapshot(2)))

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snap_002", latest.ID)
}

func TestRecorder_Record(t *testing.T) {
	repo := history.NewMemoryRepository(10)
	recorder := history.NewRecorder(repo)
	ctx := context.Background()

	err := recorder.Record(ctx, "upstream", status.Summary{"status": "ok"})
	require.NoError(t, err)

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "upstream", latest.Provider)
	assert.Equal(t, "ok", latest.Summary["status"])
	assert.Contains(t, latest.ID, "snap_")
	assert.False(t, latest.FetchedAt.IsZero())
}
