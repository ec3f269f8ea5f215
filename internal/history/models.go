// Package history keeps an audit trail of successfully fetched status
// summaries.
package history

import (
	"errors"
	"time"

	"github.com/statusgate/statusgate/internal/status"
)

// ErrNoSnapshots is returned by Latest when nothing has been recorded yet.
var ErrNoSnapshots = errors.New("history: no snapshots recorded")

// Snapshot is one recorded fetch result.
type Snapshot struct {
	// ID is a unique snapshot identifier.
	ID string

	// Provider names the provider that produced the summary.
	Provider string

	// Summary is the fetched payload.
	Summary status.Summary

	// FetchedAt is when the fetch completed.
	FetchedAt time.Time
}
