// Package api assembles the statusgate HTTP router.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/statusgate/statusgate/internal/api/handler"
	"github.com/statusgate/statusgate/internal/api/middleware"
	"github.com/statusgate/statusgate/internal/auth"
	"github.com/statusgate/statusgate/internal/history"
	"github.com/statusgate/statusgate/internal/resilience"
	"github.com/statusgate/statusgate/internal/status"
)

// RouterConfig carries the dependencies the router wires into handlers.
type RouterConfig struct {
	Logger   zerolog.Logger
	Service  *status.Service
	Registry *resilience.Registry
	History  history.Repository

	// Tokens guards the admin routes. When nil the admin routes are not
	// mounted at all.
	Tokens *auth.TokenService

	// RateLimit is requests per client IP per minute. Zero disables
	// limiting.
	RateLimit int
}

// NewRouter builds the HTTP router with all middleware and routes mounted.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing)
	if metrics, err := middleware.NewMetrics(); err != nil {
		cfg.Logger.Warn().Err(err).Msg("http metrics disabled")
	} else {
		r.Use(metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	if cfg.RateLimit > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))
	}

	ops := handler.NewOpsHandler(cfg.Service, cfg.Registry, cfg.Logger)
	statusHandler := handler.NewStatusHandler(cfg.Service, cfg.History, cfg.Logger)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", ops.Health)
			r.Get("/ready", ops.Ready)
			r.Get("/status", ops.Status)
		})

		r.Route("/status", func(r chi.Router) {
			r.Get("/", statusHandler.GetSummary)
			r.Get("/history", statusHandler.ListHistory)
			r.Get("/history/latest", statusHandler.LatestSnapshot)
		})

		if cfg.Tokens != nil {
			admin := handler.NewAdminHandler(cfg.Service, cfg.Logger)
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireToken(cfg.Tokens))
				r.Post("/cache/invalidate", admin.Invalidate)
				r.Post("/refresh", admin.Refresh)
			})
		}
	})

	return r
}
