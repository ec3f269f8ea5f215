package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/statusgate/statusgate/internal/api/middleware"
	"github.com/statusgate/statusgate/internal/api/models"
	"github.com/statusgate/statusgate/internal/api/response"
	"github.com/statusgate/statusgate/internal/status"
)

// AdminHandler serves the token-protected cache management endpoints.
type AdminHandler struct {
	service *status.Service
	log     zerolog.Logger
}

func NewAdminHandler(service *status.Service, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{service: service, log: log}
}

// Invalidate drops the cached summary so the next read refetches.
func (h *AdminHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Invalidate(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("invalidating summary cache")
		response.Problem(w, r, models.NewInternalError("", "could not invalidate cache"))
		return
	}

	h.log.Info().
		Str("subject", middleware.GetSubject(r.Context())).
		Msg("summary cache invalidated")
	w.WriteHeader(http.StatusNoContent)
}

// Refresh fetches a fresh summary from the provider, bypassing the cache,
// and returns it.
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Refresh(r.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("forced refresh failed")
		response.Problem(w, r, models.NewServiceUnavailable("", "provider fetch failed"))
		return
	}

	h.log.Info().
		Str("subject", middleware.GetSubject(r.Context())).
		Msg("summary refreshed")
	response.JSON(w, http.StatusOK, models.StatusSummaryResponse{
		Provider: h.service.ProviderName(),
		Summary:  summary,
	})
}
