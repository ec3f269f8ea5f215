// Package upstream implements the network-backed status provider: an HTTP
// GET against the configured status endpoint, expecting a JSON object body.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/statusgate/statusgate/internal/resilience"
	"github.com/statusgate/statusgate/internal/status"
)

// ProviderName identifies this provider in logs and the ops endpoint.
const ProviderName = "upstream"

// ClientConfig holds configuration for the upstream client.
type ClientConfig struct {
	// URL is the status endpoint (required, absolute).
	URL string

	// HTTPClient executes the requests (optional). If nil, a resilient
	// client with defaults and no retries is used.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches the status summary over HTTP.
type Client struct {
	url        string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates an upstream status client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{Name: ProviderName})
	}
	return &Client{
		url:        cfg.URL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name implements status.Provider.
func (c *Client) Name() string {
	return ProviderName
}

// FetchSummary implements status.Provider. Any non-2xx response, transport
// error, or timeout is reported as status.ErrFetchFailed.
func (c *Client) FetchSummary(ctx context.Context) (status.Summary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", status.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status code: %d", status.ErrFetchFailed, resp.StatusCode)
	}

	var summary status.Summary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", status.ErrFetchFailed, err)
	}

	c.logger.Debug().
		Str("url", c.url).
		Int("fields", len(summary)).
		Msg("fetched status summary")

	return summary, nil
}
