package resilience

import (
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ProviderHealth is a point-in-time view of one provider's health, surfaced
// by the ops status endpoint.
type ProviderHealth struct {
	Name          string
	CircuitState  gobreaker.State
	Counts        gobreaker.Counts
	LastSuccessAt *time.Time
	LastFailureAt *time.Time
	LastError     string
}

// Healthy reports whether the provider circuit is closed.
func (h ProviderHealth) Healthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// Registry tracks resilient clients and their most recent outcomes.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	client        *Client
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registryEntry)}
}

// Register adds a client under the given provider name, replacing any prior
// registration.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	r.entries[name] = &registryEntry{client: client}
	r.mu.Unlock()
}

// RecordSuccess notes a successful call for the provider.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[name]; ok {
		now := time.Now()
		e.lastSuccessAt = &now
	}
}

// RecordFailure notes a failed call for the provider.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[name]; ok {
		now := time.Now()
		e.lastFailureAt = &now
		if err != nil {
			e.lastError = err.Error()
		}
	}
}

// Health returns the health view for one provider, or false when the name is
// not registered.
func (r *Registry) Health(name string) (ProviderHealth, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return ProviderHealth{}, false
	}
	return e.health(name), true
}

// AllHealth returns the health view for every registered provider.
func (r *Registry) AllHealth() []ProviderHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]ProviderHealth, 0, len(r.entries))
	for name, e := range r.entries {
		health = append(health, e.health(name))
	}
	return health
}

func (e *registryEntry) health(name string) ProviderHealth {
	return ProviderHealth{
		Name:          name,
		CircuitState:  e.client.State(),
		Counts:        e.client.Counts(),
		LastSuccessAt: e.lastSuccessAt,
		LastFailureAt: e.lastFailureAt,
		LastError:     e.lastError,
	}
}
