// Package config loads and validates statusgate configuration from the
// environment. Configuration is read once at process start and is immutable
// for the process lifetime.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// ProviderKind selects the status provider implementation.
type ProviderKind string

const (
	// ProviderReal fetches the summary from the configured upstream URL.
	ProviderReal ProviderKind = "real"

	// ProviderMock returns a fixed summary without network access.
	ProviderMock ProviderKind = "mock"
)

// ValidationError describes a single invalid configuration value.
// Any ValidationError returned from Load is fatal at startup.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// Config holds the full statusgate configuration.
type Config struct {
	// Port is the HTTP listen port for the API server.
	Port string

	// Environment is the deployment environment name (development, production).
	Environment string

	// StatusURL is the upstream status endpoint. Required when Provider is real.
	StatusURL string

	// Provider selects the status provider implementation.
	Provider ProviderKind

	// CacheTTL is how long a fetched summary stays fresh.
	CacheTTL time.Duration

	// FetchTimeout bounds a single upstream fetch.
	FetchTimeout time.Duration

	// MaxRetries is the number of retry attempts for upstream fetches.
	// Zero by default: a failed fetch is surfaced immediately.
	MaxRetries int

	// OTelEnabled toggles telemetry export.
	OTelEnabled bool

	// OTLPEndpoint is the OTLP gRPC collector endpoint.
	OTLPEndpoint string

	// RedisAddr selects the Redis cache backend when non-empty.
	// When empty the in-memory cache is used.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// DatabaseURL selects the Postgres history repository when non-empty.
	// When empty snapshots are kept in memory.
	DatabaseURL string

	// AdminSigningKey signs admin bearer tokens. Admin routes are disabled
	// when empty.
	AdminSigningKey string

	// Worker settings.
	RefreshInterval    time.Duration
	PubSubProjectID    string
	PubSubSubscription string
}

// Load reads configuration from the environment and validates it.
// Returns a joined set of ValidationErrors when any value is invalid.
func Load() (Config, error) {
	cfg := Config{
		Port:               getenv("APP_PORT", "8080"),
		Environment:        getenv("APP_ENV", "development"),
		StatusURL:          os.Getenv("STATUS_URL"),
		Provider:           ProviderKind(getenv("STATUS_PROVIDER", string(ProviderMock))),
		OTelEnabled:        os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint:       getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		AdminSigningKey:    os.Getenv("ADMIN_SIGNING_KEY"),
		PubSubProjectID:    os.Getenv("PUBSUB_PROJECT_ID"),
		PubSubSubscription: os.Getenv("PUBSUB_SUBSCRIPTION"),
	}

	var errs []error

	cacheTTLMs, err := getenvInt("STATUS_CACHE_TTL_MS", 60000)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.CacheTTL = time.Duration(cacheTTLMs) * time.Millisecond

	timeoutMs, err := getenvInt("STATUS_TIMEOUT_MS", 2000)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.FetchTimeout = time.Duration(timeoutMs) * time.Millisecond

	cfg.MaxRetries, err = getenvInt("STATUS_MAX_RETRIES", 0)
	if err != nil {
		errs = append(errs, err)
	}

	cfg.RedisDB, err = getenvInt("REDIS_DB", 0)
	if err != nil {
		errs = append(errs, err)
	}

	cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 30*time.Second)
	if err != nil {
		errs = append(errs, err)
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// validate checks the loaded values. Each failure is reported as a
// ValidationError so callers can log every problem at once.
func (c Config) validate() []error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, &ValidationError{Field: "APP_PORT", Reason: "must be a port number between 1 and 65535"})
	}

	switch c.Provider {
	case ProviderReal, ProviderMock:
	default:
		errs = append(errs, &ValidationError{
			Field:  "STATUS_PROVIDER",
			Reason: fmt.Sprintf("unknown provider kind %q, want %q or %q", c.Provider, ProviderMock, ProviderReal),
		})
	}

	if c.Provider == ProviderReal {
		if c.StatusURL == "" {
			errs = append(errs, &ValidationError{Field: "STATUS_URL", Reason: "required when STATUS_PROVIDER is real"})
		} else if u, err := url.Parse(c.StatusURL); err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, &ValidationError{Field: "STATUS_URL", Reason: "must be an absolute http(s) URL"})
		}
	}

	if c.CacheTTL < 0 {
		errs = append(errs, &ValidationError{Field: "STATUS_CACHE_TTL_MS", Reason: "must be >= 0"})
	}
	if c.FetchTimeout < 0 {
		errs = append(errs, &ValidationError{Field: "STATUS_TIMEOUT_MS", Reason: "must be >= 0"})
	}
	if c.MaxRetries < 0 {
		errs = append(errs, &ValidationError{Field: "STATUS_MAX_RETRIES", Reason: "must be >= 0"})
	}
	if c.AdminSigningKey != "" && len(c.AdminSigningKey) < 16 {
		errs = append(errs, &ValidationError{Field: "ADMIN_SIGNING_KEY", Reason: "must be at least 16 characters"})
	}
	if c.RefreshInterval <= 0 {
		errs = append(errs, &ValidationError{Field: "REFRESH_INTERVAL", Reason: "must be a positive duration"})
	}

	return errs
}

// AdminEnabled reports whether admin routes should be mounted.
func (c Config) AdminEnabled() bool {
	return c.AdminSigningKey != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ValidationError{Field: key, Reason: "must be an integer"}
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, &ValidationError{Field: key, Reason: "must be a duration such as 30s or 5m"}
	}
	return d, nil
}
