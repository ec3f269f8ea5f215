// Package resilience wraps outbound HTTP calls to status providers with a
// circuit breaker and an optional bounded retry policy.
package resilience

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned without touching the network while the breaker
// rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ServerError marks an HTTP 5xx response so the breaker counts it as a
// failure.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// ClientConfig configures a resilient HTTP client.
type ClientConfig struct {
	// Name identifies the client for breaker state and the provider registry.
	Name string

	// Timeout bounds each individual HTTP call. Default: 10 seconds.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the first call.
	// Zero (the default) disables retries: the first failure is returned
	// to the caller as-is.
	MaxRetries uint64

	// InitialInterval is the first retry backoff delay. Default: 100ms.
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff delay. Default: 2 seconds.
	MaxInterval time.Duration

	// Breaker configures the circuit breaker. Zero value uses defaults:
	// trip at 50% failures over at least 5 calls, reopen probe after 30s.
	Breaker BreakerConfig
}

// BreakerConfig configures the circuit breaker.
type BreakerConfig struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	ReadyToTrip func(counts gobreaker.Counts) bool
}

func defaultReadyToTrip(counts gobreaker.Counts) bool {
	ratio := float64(counts.TotalFailures) / float64(counts.Requests)
	return counts.Requests >= 5 && ratio >= 0.5
}

// Client executes HTTP requests through a circuit breaker.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	cfg        ClientConfig
}

// NewClient creates a resilient HTTP client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 2 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: cfg.Breaker.ReadyToTrip,
	}
	if settings.MaxRequests == 0 {
		settings.MaxRequests = 1
	}
	if settings.Timeout == 0 {
		settings.Timeout = 30 * time.Second
	}
	if settings.ReadyToTrip == nil {
		settings.ReadyToTrip = defaultReadyToTrip
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker[*http.Response](settings),
		cfg:        cfg,
	}
}

// Do executes the request. Responses with status >= 500 and transport errors
// count against the breaker; when MaxRetries is non-zero they are retried
// with exponential backoff. The caller owns the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	attempt := func() (*http.Response, error) {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= 500 {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitOpen
		}
		return resp, err
	}

	if c.cfg.MaxRetries == 0 {
		resp, err := attempt()
		if err != nil {
			// A 5xx response is handed back to the caller; the breaker has
			// already recorded the failure.
			if resp != nil {
				return resp, nil
			}
			return nil, err
		}
		return resp, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.InitialInterval
	bo.MaxInterval = c.cfg.MaxInterval
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.cfg.MaxRetries), ctx)

	var lastResp *http.Response
	operation := func() error {
		resp, err := attempt()
		if err != nil {
			if errors.Is(err, ErrCircuitOpen) {
				return backoff.Permanent(err)
			}
			if resp != nil {
				lastResp = resp
			}
			return err
		}
		lastResp = resp
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}
	return lastResp, nil
}

// State returns the current circuit breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Counts returns the circuit breaker call counters.
func (c *Client) Counts() gobreaker.Counts {
	return c.breaker.Counts()
}
