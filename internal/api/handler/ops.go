// Package handler implements the HTTP handlers for the statusgate API.
package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/statusgate/statusgate/internal/api/models"
	"github.com/statusgate/statusgate/internal/api/response"
	"github.com/statusgate/statusgate/internal/resilience"
	"github.com/statusgate/statusgate/internal/status"
)

// OpsHandler serves operational endpoints.
type OpsHandler struct {
	service  *status.Service
	registry *resilience.Registry
	log      zerolog.Logger
}

func NewOpsHandler(service *status.Service, registry *resilience.Registry, log zerolog.Logger) *OpsHandler {
	return &OpsHandler{service: service, registry: registry, log: log}
}

// Health reports "up" when the status summary resolves and "down" when the
// fetch fails, with 200 and 503 respectively.
func (h *OpsHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())

	if _, err := h.service.GetSummary(r.Context()); err != nil {
		h.log.Warn().Err(err).Msg("health check failed")
		response.JSON(w, http.StatusServiceUnavailable, models.Health{
			Status: models.HealthDown,
			Time:   now,
			Reason: err.Error(),
		})
		return
	}

	response.JSON(w, http.StatusOK, models.Health{
		Status: models.HealthUp,
		Time:   now,
		Details: map[string]any{
			"provider": h.service.ProviderName(),
			"cache":    h.service.CacheBackend(),
		},
	})
}

// Ready reports whether the process is accepting requests.
func (h *OpsHandler) Ready(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, models.Health{
		Status: models.HealthUp,
		Time:   models.Timestamp(time.Now()),
	})
}

// Status reports the cache configuration and per-provider circuit health.
func (h *OpsHandler) Status(w http.ResponseWriter, r *http.Request) {
	overall := models.HealthUp
	providers := make([]models.ProviderStatus, 0)

	for _, ph := range h.registry.AllHealth() {
		if !ph.Healthy() {
			overall = models.HealthDown
		}
		providers = append(providers, providerStatus(ph))
	}

	response.JSON(w, http.StatusOK, models.SystemStatus{
		Status: overall,
		Time:   models.Timestamp(time.Now()),
		Cache: models.CacheInfo{
			Backend: h.service.CacheBackend(),
			TTLMs:   h.service.CacheTTL().Milliseconds(),
		},
		Providers: providers,
	})
}

func providerStatus(ph resilience.ProviderHealth) models.ProviderStatus {
	ps := models.ProviderStatus{
		Provider:     ph.Name,
		CircuitState: ph.CircuitState.String(),
		LastError:    ph.LastError,
	}
	if ph.LastSuccessAt != nil {
		ts := models.Timestamp(*ph.LastSuccessAt)
		ps.LastSuccessAt = &ts
	}
	if ph.LastFailureAt != nil {
		ts := models.Timestamp(*ph.LastFailureAt)
		ps.LastFailureAt = &ts
	}
	return ps
}
