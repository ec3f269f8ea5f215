package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusgate/statusgate/internal/cache"
	"github.com/statusgate/statusgate/internal/status"
)

type flakyProvider struct {
	calls atomic.Int64
	fail  bool
}

func (p *flakyProvider) FetchSummary(ctx context.Context) (status.Summary, error) {
	p.calls.Add(1)
	if p.fail {
		return nil, errors.New("upstream unreachable")
	}
	return status.Summary{"status": "ok"}, nil
}

func (p *flakyProvider) Name() string { return "flaky" }

func newJobService(provider status.Provider) *status.Service {
	return status.NewService(status.ServiceConfig{
		Provider: provider,
		Cache:    cache.NewMemory(),
		Logger:   zerolog.Nop(),
		CacheTTL: time.Minute,
	})
}

func TestRefreshJob_RunRecordsSuccess(t *testing.T) {
	provider := &flakyProvider{}
	job := NewRefreshJob(RefreshJobConfig{
		Service: newJobService(provider),
		Logger:  zerolog.Nop(),
	})

	require.NoError(t, job.Run(context.Background()))

	metrics := job.Metrics()
	assert.Equal(t, int64(1), metrics.TotalRuns)
	assert.Equal(t, int64(1), metrics.SuccessfulRuns)
	assert.Equal(t, int64(0), metrics.FailedRuns)
	assert.Empty(t, metrics.LastError)
	assert.False(t, metrics.LastRunAt.IsZero())
}

func TestRefreshJob_RunRecordsFailure(t *testing.T) {
	provider := &flakyProvider{fail: true}
	job := NewRefreshJob(RefreshJobConfig{
		Service: newJobService(provider),
		Logger:  zerolog.Nop(),
	})

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrFetchFailed)

	metrics := job.Metrics()
	assert.Equal(t, int64(1), metrics.FailedRuns)
	assert.NotEmpty(t, metrics.LastError)
}

func TestRefreshJob_StartRefreshesImmediately(t *testing.T) {
	provider := &flakyProvider{}
	job := NewRefreshJob(RefreshJobConfig{
		Service:  newJobService(provider),
		Interval: time.Hour,
		Logger:   zerolog.Nop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return provider.calls.Load() == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestRefreshJob_StartTicks(t *testing.T) {
	provider := &flakyProvider{}
	job := NewRefreshJob(RefreshJobConfig{
		Service:  newJobService(provider),
		Interval: 20 * time.Millisecond,
		Logger:   zerolog.Nop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go job.Start(ctx)

	require.Eventually(t, func() bool {
		return provider.calls.Load() >= 3
	}, time.Second, 10*time.Millisecond)
}

func TestRefreshJob_DefaultInterval(t *testing.T) {
	job := NewRefreshJob(RefreshJobConfig{
		Service: newJobService(&flakyProvider{}),
		Logger:  zerolog.Nop(),
	})

	assert.Equal(t, DefaultRefreshInterval, job.interval)
}
