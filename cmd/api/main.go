// Package main provides the entrypoint for the statusgate API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/statusgate/statusgate/internal/api"
	"github.com/statusgate/statusgate/internal/auth"
	"github.com/statusgate/statusgate/internal/cache"
	"github.com/statusgate/statusgate/internal/config"
	"github.com/statusgate/statusgate/internal/database"
	"github.com/statusgate/statusgate/internal/history"
	"github.com/statusgate/statusgate/internal/resilience"
	"github.com/statusgate/statusgate/internal/status"
	"github.com/statusgate/statusgate/internal/status/upstream"
	"github.com/statusgate/statusgate/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "statusgate-api"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting statusgate API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	// Cache backend: Redis when configured, in-process memory otherwise.
	var store cache.Store = cache.NewMemory()
	if cfg.RedisAddr != "" {
		redisStore, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
		}
		defer redisStore.Close()
		store = redisStore
	}
	log.Info().Str("backend", store.Name()).Msg("cache initialized")

	// History repository: Postgres when configured, in-memory otherwise.
	var repo history.Repository = history.NewMemoryRepository(0)
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, database.Config{URL: cfg.DatabaseURL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		repo = history.NewPostgresRepository(pool)
		log.Info().Msg("database connected")
	}

	registry := resilience.NewRegistry()

	// Provider selection happens once at startup. An unknown kind is fatal.
	var real status.Provider
	if cfg.Provider == config.ProviderReal {
		httpClient := resilience.NewClient(resilience.ClientConfig{
			Name:       upstream.ProviderName,
			Timeout:    cfg.FetchTimeout,
			MaxRetries: uint64(cfg.MaxRetries),
		})
		registry.Register(upstream.ProviderName, httpClient)
		real = upstream.NewClient(upstream.ClientConfig{
			URL:        cfg.StatusURL,
			HTTPClient: httpClient,
			Logger:     log,
		})
	}

	provider, err := status.NewProvider(status.ProviderConfig{
		Kind: cfg.Provider,
		Real: real,
	})
	if err != nil {
		log.Fatal().Err(err).Str("kind", string(cfg.Provider)).Msg("failed to select status provider")
	}
	log.Info().Str("provider", provider.Name()).Msg("status provider selected")

	metrics, err := status.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize status metrics")
	}

	service := status.NewService(status.ServiceConfig{
		Provider:     provider,
		Cache:        store,
		Logger:       log,
		CacheTTL:     cfg.CacheTTL,
		FetchTimeout: cfg.FetchTimeout,
		Registry:     registry,
		History:      history.NewRecorder(repo),
		Metrics:      metrics,
	})

	var tokens *auth.TokenService
	if cfg.AdminEnabled() {
		tokens = auth.NewTokenService(cfg.AdminSigningKey)
		log.Info().Msg("admin endpoints enabled")
	} else {
		log.Warn().Msg("ADMIN_SIGNING_KEY not set, admin endpoints disabled")
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:    log,
		Service:   service,
		Registry:  registry,
		History:   repo,
		Tokens:    tokens,
		RateLimit: 120,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
