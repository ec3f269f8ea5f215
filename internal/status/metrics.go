package status

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/statusgate/statusgate/internal/status"

// Metrics holds instruments for cache and fetch observability.
type Metrics struct {
	cacheHits     metric.Int64Counter
	cacheMisses   metric.Int64Counter
	fetchTotal    metric.Int64Counter
	fetchDuration metric.Float64Histogram
}

// NewMetrics creates the status service instruments on the global meter.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	cacheHits, err := meter.Int64Counter(
		"status.cache.hit",
		metric.WithDescription("Number of summary cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter(
		"status.cache.miss",
		metric.WithDescription("Number of summary cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, err
	}

	fetchTotal, err := meter.Int64Counter(
		"status.fetch.total",
		metric.WithDescription("Total number of upstream status fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, err
	}

	fetchDuration, err := meter.Float64Histogram(
		"status.fetch.duration",
		metric.WithDescription("Duration of upstream status fetches in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		cacheHits:     cacheHits,
		cacheMisses:   cacheMisses,
		fetchTotal:    fetchTotal,
		fetchDuration: fetchDuration,
	}, nil
}

func (m *Metrics) recordCacheHit(provider string) {
	if m == nil {
		return
	}
	m.cacheHits.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("provider.name", provider)))
}

func (m *Metrics) recordCacheMiss(provider string) {
	if m == nil {
		return
	}
	m.cacheMisses.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("provider.name", provider)))
}

func (m *Metrics) recordFetch(provider string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("provider.name", provider)}
	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}
	ctx := context.Background()
	m.fetchTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.fetchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
