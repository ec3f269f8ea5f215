// Package worker runs the background refresh loop and the Pub/Sub job
// consumer that keep the summary cache warm.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/statusgate/statusgate/internal/status"
)

// DefaultRefreshInterval is used when no interval is configured.
const DefaultRefreshInterval = 30 * time.Second

// RefreshJob periodically refetches the status summary so reads keep
// hitting a warm cache.
type RefreshJob struct {
	service  *status.Service
	interval time.Duration
	logger   zerolog.Logger

	mu      sync.RWMutex
	metrics RefreshMetrics
}

// RefreshMetrics tracks refresh loop statistics.
type RefreshMetrics struct {
	TotalRuns       int64
	SuccessfulRuns  int64
	FailedRuns      int64
	LastRunAt       time.Time
	LastRunDuration time.Duration
	LastError       string
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Service  *status.Service
	Interval time.Duration
	Logger   zerolog.Logger
}

// NewRefreshJob creates a refresh job.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &RefreshJob{
		service:  cfg.Service,
		interval: interval,
		logger:   cfg.Logger,
	}
}

// Run refreshes once and records the outcome.
func (j *RefreshJob) Run(ctx context.Context) error {
	start := time.Now()
	_, err := j.service.Refresh(ctx)
	duration := time.Since(start)

	j.mu.Lock()
	j.metrics.TotalRuns++
	j.metrics.LastRunAt = start
	j.metrics.LastRunDuration = duration
	if err != nil {
		j.metrics.FailedRuns++
		j.metrics.LastError = err.Error()
	} else {
		j.metrics.SuccessfulRuns++
		j.metrics.LastError = ""
	}
	j.mu.Unlock()

	if err != nil {
		j.logger.Warn().
			Err(err).
			Dur("duration", duration).
			Msg("refresh failed")
		return err
	}

	j.logger.Debug().
		Dur("duration", duration).
		Str("provider", j.service.ProviderName()).
		Msg("refresh completed")
	return nil
}

// Start runs the refresh loop until the context is cancelled. The first
// refresh happens immediately.
func (j *RefreshJob) Start(ctx context.Context) {
	j.logger.Info().
		Dur("interval", j.interval).
		Str("provider", j.service.ProviderName()).
		Msg("starting refresh loop")

	_ = j.Run(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("refresh loop stopped")
			return
		case <-ticker.C:
			_ = j.Run(ctx)
		}
	}
}

// Metrics returns a copy of the current refresh statistics.
func (j *RefreshJob) Metrics() RefreshMetrics {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.metrics
}
