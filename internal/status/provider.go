package status

import (
	"context"
	"fmt"

	"github.com/statusgate/statusgate/internal/config"
)

// Provider fetches the current status summary from some source.
// Implementations: the upstream HTTP client (real) and MockProvider (mock).
type Provider interface {
	// FetchSummary returns the current summary. A failed fetch returns an
	// error satisfying errors.Is(err, ErrFetchFailed).
	FetchSummary(ctx context.Context) (Summary, error)

	// Name returns the provider name for logging and ops reporting.
	Name() string
}

// ProviderConfig holds the inputs for provider selection.
type ProviderConfig struct {
	// Kind selects the implementation.
	Kind config.ProviderKind

	// Real is the network-backed provider, constructed by the caller.
	// Only consulted when Kind is real.
	Real Provider
}

// NewProvider resolves the provider implementation for the configured kind.
// Selection happens once at startup; an unrecognized kind is a fatal
// configuration error, not a deferred one.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Kind {
	case config.ProviderMock:
		return NewMockProvider(), nil
	case config.ProviderReal:
		if cfg.Real == nil {
			return nil, fmt.Errorf("provider kind %q selected but no real provider supplied", cfg.Kind)
		}
		return cfg.Real, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProviderKind, cfg.Kind)
	}
}

// MockProvider returns a fixed summary without any network access. Used for
// local development and tests.
type MockProvider struct{}

// NewMockProvider creates the deterministic mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// FetchSummary implements Provider. The payload is constant across calls.
func (p *MockProvider) FetchSummary(_ context.Context) (Summary, error) {
	return Summary{
		"status":  "ok",
		"source":  "mock",
		"message": "synthetic status summary",
		"components": map[string]any{
			"api":   "up",
			"cache": "up",
		},
	}, nil
}

// Name implements Provider.
func (p *MockProvider) Name() string {
	return "mock"
}
