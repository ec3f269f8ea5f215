package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/statusgate/statusgate/internal/cache"
	"github.com/statusgate/statusgate/internal/resilience"
)

// DefaultCacheKey is the fixed cache key for the status summary. At most one
// entry exists under it; a write always replaces the prior entry.
const DefaultCacheKey = "status:summary"

// SnapshotRecorder persists successful fetches for the history endpoint.
// Implemented by the history package; recording failures are logged and
// never propagated to the caller.
type SnapshotRecorder interface {
	Record(ctx context.Context, provider string, summary Summary) error
}

// ServiceConfig holds configuration for the status service.
type ServiceConfig struct {
	// Provider is the selected status provider (required).
	Provider Provider

	// Cache stores fetched summaries (required).
	Cache cache.Store

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long a fetched summary stays fresh. Zero disables
	// caching: every call fetches from the provider.
	CacheTTL time.Duration

	// FetchTimeout bounds a single provider fetch. Zero means no bound
	// beyond the caller's context.
	FetchTimeout time.Duration

	// CacheKey overrides DefaultCacheKey when non-empty.
	CacheKey string

	// Registry records fetch outcomes for the ops status endpoint (optional).
	Registry *resilience.Registry

	// History records successful fetches (optional).
	History SnapshotRecorder

	// Metrics records cache hit/miss and fetch instruments (optional).
	Metrics *Metrics
}

// Service returns the current status summary, serving a cached value while
// fresh and fetching from the provider otherwise.
//
// Concurrent callers that miss the cache each fetch independently; there is
// no coalescing, and the last cache write wins.
type Service struct {
	provider     Provider
	cache        cache.Store
	logger       zerolog.Logger
	cacheTTL     time.Duration
	fetchTimeout time.Duration
	cacheKey     string
	registry     *resilience.Registry
	history      SnapshotRecorder
	metrics      *Metrics
}

// NewService creates a status service.
func NewService(cfg ServiceConfig) *Service {
	key := cfg.CacheKey
	if key == "" {
		key = DefaultCacheKey
	}
	return &Service{
		provider:     cfg.Provider,
		cache:        cfg.Cache,
		logger:       cfg.Logger,
		cacheTTL:     cfg.CacheTTL,
		fetchTimeout: cfg.FetchTimeout,
		cacheKey:     key,
		registry:     cfg.Registry,
		history:      cfg.History,
		metrics:      cfg.Metrics,
	}
}

// GetSummary returns the current status summary. A fresh cached value is
// returned without an upstream call; otherwise the provider is fetched and
// the cache repopulated. A failed fetch leaves the cache untouched and
// returns an error satisfying errors.Is(err, ErrFetchFailed).
func (s *Service) GetSummary(ctx context.Context) (Summary, error) {
	if s.cacheTTL > 0 {
		if summary, ok := s.lookupCache(ctx); ok {
			s.metrics.recordCacheHit(s.provider.Name())
			return summary, nil
		}
		s.metrics.recordCacheMiss(s.provider.Name())
	}
	return s.fetchAndStore(ctx)
}

// Refresh forces a provider fetch and repopulates the cache, bypassing any
// fresh entry. Used by the background refresh worker.
func (s *Service) Refresh(ctx context.Context) (Summary, error) {
	return s.fetchAndStore(ctx)
}

// Invalidate drops the cached summary so the next GetSummary fetches.
func (s *Service) Invalidate(ctx context.Context) error {
	if err := s.cache.Delete(ctx, s.cacheKey); err != nil {
		return fmt.Errorf("invalidating summary cache: %w", err)
	}
	s.logger.Info().Str("cache_key", s.cacheKey).Msg("summary cache invalidated")
	return nil
}

// ProviderName returns the selected provider's name.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// CacheBackend returns the cache backend name.
func (s *Service) CacheBackend() string {
	return s.cache.Name()
}

// CacheTTL returns the configured summary TTL.
func (s *Service) CacheTTL() time.Duration {
	return s.cacheTTL
}

// lookupCache returns a cached summary when present and decodable. Cache
// backend errors are treated as a miss: a degraded cache must not take the
// status endpoint down with it.
func (s *Service) lookupCache(ctx context.Context) (Summary, bool) {
	data, err := s.cache.Get(ctx, s.cacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.logger.Warn().Err(err).Str("cache_key", s.cacheKey).Msg("summary cache read failed")
		}
		return nil, false
	}

	summary, err := DecodeSummary(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("cache_key", s.cacheKey).Msg("discarding undecodable cache entry")
		return nil, false
	}
	return summary, true
}

func (s *Service) fetchAndStore(ctx context.Context) (Summary, error) {
	fetchCtx := ctx
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	start := time.Now()
	summary, err := s.provider.FetchSummary(fetchCtx)
	s.metrics.recordFetch(s.provider.Name(), time.Since(start), err)

	if err != nil {
		if s.registry != nil {
			s.registry.RecordFailure(s.provider.Name(), err)
		}
		s.logger.Error().Err(err).
			Str("provider", s.provider.Name()).
			Msg("status fetch failed")

		if !errors.Is(err, ErrFetchFailed) {
			err = fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}
		return nil, err
	}

	if s.registry != nil {
		s.registry.RecordSuccess(s.provider.Name())
	}

	if s.cacheTTL > 0 {
		if err := s.storeCache(ctx, summary); err != nil {
			// The fetch succeeded; a cache write failure degrades to
			// fetch-every-time rather than failing the call.
			s.logger.Error().Err(err).Str("cache_key", s.cacheKey).Msg("summary cache write failed")
		}
	}

	if s.history != nil {
		if err := s.history.Record(ctx, s.provider.Name(), summary); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record status snapshot")
		}
	}

	return summary, nil
}

func (s *Service) storeCache(ctx context.Context, summary Summary) error {
	data, err := summary.Encode()
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return s.cache.Set(ctx, s.cacheKey, data, s.cacheTTL)
}
