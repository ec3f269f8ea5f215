package models

// Health is the health endpoint response. Status is "up" when the status
// summary resolves and "down" otherwise; Reason carries the failure text
// when down.
type Health struct {
	Status  HealthState    `json:"status"`
	Time    Timestamp      `json:"time"`
	Reason  string         `json:"reason,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// SystemStatus is the ops status endpoint response.
type SystemStatus struct {
	Status    HealthState      `json:"status"`
	Time      Timestamp        `json:"time"`
	Cache     CacheInfo        `json:"cache"`
	Providers []ProviderStatus `json:"providers"`
}

// CacheInfo describes the configured summary cache.
type CacheInfo struct {
	Backend string `json:"backend"`
	TTLMs   int64  `json:"ttlMs"`
}

// ProviderStatus describes one status provider's recent behavior.
type ProviderStatus struct {
	Provider      string     `json:"provider"`
	CircuitState  string     `json:"circuitState"`
	LastSuccessAt *Timestamp `json:"lastSuccessAt,omitempty"`
	LastFailureAt *Timestamp `json:"lastFailureAt,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
}

// StatusSummaryResponse wraps the raw upstream summary.
type StatusSummaryResponse struct {
	Provider string         `json:"provider"`
	Summary  map[string]any `json:"summary"`
}

// SnapshotResponse is one recorded fetch in the history listing.
type SnapshotResponse struct {
	ID        string         `json:"id"`
	Provider  string         `json:"provider"`
	Summary   map[string]any `json:"summary"`
	FetchedAt Timestamp      `json:"fetchedAt"`
}

// HistoryResponse is the history endpoint response.
type HistoryResponse struct {
	Snapshots []SnapshotResponse `json:"snapshots"`
}
