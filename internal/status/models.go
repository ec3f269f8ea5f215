// Package status implements the cached upstream status summary: a provider
// abstraction over the upstream fetch, a startup-time provider selector, and
// a cache-fronted service with TTL expiry.
package status

import (
	"encoding/json"
	"errors"
)

// Predefined status errors.
var (
	// ErrFetchFailed marks an upstream fetch that failed, timed out, or
	// returned a non-2xx status. The cache is left untouched.
	ErrFetchFailed = errors.New("status fetch failed")

	// ErrUnknownProviderKind is returned by NewProvider for a kind with no
	// registered implementation. Raised at startup, never deferred.
	ErrUnknownProviderKind = errors.New("unknown status provider kind")
)

// Summary is the upstream service's status payload, carried verbatim.
// No schema is imposed beyond being a JSON object. Treat as read-only once
// fetched.
type Summary map[string]any

// DecodeSummary parses a JSON object into a Summary.
func DecodeSummary(data []byte) (Summary, error) {
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode serializes the summary for cache storage.
func (s Summary) Encode() ([]byte, error) {
	return json.Marshal(s)
}
