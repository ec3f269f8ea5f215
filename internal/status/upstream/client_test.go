package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusgate/statusgate/internal/resilience"
	"github.com/statusgate/statusgate/internal/status"
	"github.com/statusgate/statusgate/internal/status/upstream"
)

func newClient(serverURL string, timeout time.Duration) *upstream.Client {
	return upstream.NewClient(upstream.ClientConfig{
		URL: serverURL,
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name:    "upstream-test",
			Timeout: timeout,
		}),
		Logger: zerolog.Nop(),
	})
}

func TestClient_Name(t *testing.T) {
	client := upstream.NewClient(upstream.ClientConfig{
		URL:    "https://example.test/status.json",
		Logger: zerolog.Nop(),
	})
	assert.Equal(t, "upstream", client.Name())
}

func TestClient_FetchSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","uptime":1234,"region":"eu-west"}`))
	}))
	defer server.Close()

	client := newClient(server.URL, time.Second)

	summary, err := client.FetchSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ok", summary["status"])
	assert.Equal(t, float64(1234), summary["uptime"])
	assert.Equal(t, "eu-west", summary["region"])
}

func TestClient_FetchSummary_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newClient(server.URL, time.Second)

	_, err := client.FetchSummary(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrFetchFailed)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_FetchSummary_ClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newClient(server.URL, time.Second)

	_, err := client.FetchSummary(context.Background())
	assert.ErrorIs(t, err, status.ErrFetchFailed)
}

func TestClient_FetchSummary_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newClient(server.URL, 20*time.Millisecond)

	_, err := client.FetchSummary(context.Background())
	assert.ErrorIs(t, err, status.ErrFetchFailed)
}

func TestClient_FetchSummary_InvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := newClient(server.URL, time.Second)

	_, err := client.FetchSummary(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrFetchFailed)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestClient_FetchSummary_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newClient(server.URL, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchSummary(ctx)
	assert.ErrorIs(t, err, status.ErrFetchFailed)
}
