package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/statusgate/statusgate/internal/api/models"
	"github.com/statusgate/statusgate/internal/api/response"
	"github.com/statusgate/statusgate/internal/history"
	"github.com/statusgate/statusgate/internal/status"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// StatusHandler serves the cached status summary and its fetch history.
type StatusHandler struct {
	service *status.Service
	repo    history.Repository
	log     zerolog.Logger
}

func NewStatusHandler(service *status.Service, repo history.Repository, log zerolog.Logger) *StatusHandler {
	return &StatusHandler{service: service, repo: repo, log: log}
}

// GetSummary returns the current status summary, served from cache when a
// fresh entry exists.
func (h *StatusHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("summary fetch failed")
		response.Problem(w, r, models.NewServiceUnavailable("", "status summary is currently unavailable"))
		return
	}

	response.JSON(w, http.StatusOK, models.StatusSummaryResponse{
		Provider: h.service.ProviderName(),
		Summary:  summary,
	})
}

// ListHistory returns recent fetch snapshots, newest first.
func (h *StatusHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.Problem(w, r, models.NewBadRequest("", "limit must be a positive integer"))
			return
		}
		limit = min(parsed, maxHistoryLimit)
	}

	snapshots, err := h.repo.List(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("listing snapshots")
		response.Problem(w, r, models.NewInternalError("", "could not list snapshot history"))
		return
	}

	out := make([]models.SnapshotResponse, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, snapshotResponse(s))
	}
	response.JSON(w, http.StatusOK, models.HistoryResponse{Snapshots: out})
}

// LatestSnapshot returns the most recently recorded snapshot.
func (h *StatusHandler) LatestSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.repo.Latest(r.Context())
	if err != nil {
		if errors.Is(err, history.ErrNoSnapshots) {
			response.Problem(w, r, models.NewNotFound("", "no snapshots recorded yet"))
			return
		}
		h.log.Error().Err(err).Msg("loading latest snapshot")
		response.Problem(w, r, models.NewInternalError("", "could not load latest snapshot"))
		return
	}

	response.JSON(w, http.StatusOK, snapshotResponse(snapshot))
}

func snapshotResponse(s history.Snapshot) models.SnapshotResponse {
	return models.SnapshotResponse{
		ID:        s.ID,
		Provider:  s.Provider,
		Summary:   s.Summary,
		FetchedAt: models.Timestamp(s.FetchedAt),
	}
}
