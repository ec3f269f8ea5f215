// Package main provides the entrypoint for the statusgate refresh worker.
// The worker keeps the summary cache warm on a fixed interval and optionally
// consumes Pub/Sub job messages for on-demand refresh and invalidation.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/statusgate/statusgate/internal/cache"
	"github.com/statusgate/statusgate/internal/config"
	"github.com/statusgate/statusgate/internal/database"
	"github.com/statusgate/statusgate/internal/history"
	"github.com/statusgate/statusgate/internal/resilience"
	"github.com/statusgate/statusgate/internal/status"
	"github.com/statusgate/statusgate/internal/status/upstream"
	"github.com/statusgate/statusgate/internal/telemetry"
	"github.com/statusgate/statusgate/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "statusgate-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting statusgate worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

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

	var repo history.Repository = history.NewMemoryRepository(0)
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, database.Config{URL: cfg.DatabaseURL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		repo = history.NewPostgresRepository(pool)
	}

	registry := resilience.NewRegistry()

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

	service := status.NewService(status.ServiceConfig{
		Provider:     provider,
		Cache:        store,
		Logger:       log,
		CacheTTL:     cfg.CacheTTL,
		FetchTimeout: cfg.FetchTimeout,
		Registry:     registry,
		History:      history.NewRecorder(repo),
	})

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Service:  service,
		Interval: cfg.RefreshInterval,
		Logger:   log,
	})
	go refreshJob.Start(ctx)

	// Pub/Sub consumption is optional; the interval loop runs regardless.
	if cfg.PubSubProjectID != "" && cfg.PubSubSubscription != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        cfg.PubSubProjectID,
			SubscriptionName: cfg.PubSubSubscription,
			RefreshJob:       refreshJob,
			Service:          service,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Info().Msg("pubsub not configured, running interval refresh only")
	}

	// Small health server so orchestrators can probe the worker.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"up","version":%q}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
