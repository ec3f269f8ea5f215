// Package cache provides the key-value cache used to store fetched status
// summaries. Entries expire after a per-entry TTL enforced by the backend.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Store is the cache contract. A Set always replaces the prior entry for the
// key; Get never returns a partially written value.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL. A zero TTL stores the
	// value without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the entry for key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Name identifies the backend for logging and the ops status endpoint.
	Name() string
}
