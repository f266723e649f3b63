// Package leaderboardapi exposes the leaderboard module over HTTP: ranking
// snapshots and per-user position lookups.
package leaderboardapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	leaderboardservice "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/application"
	leaderboardmetrics "github.com/LiraCode/ecotrack-sub002/app/observability/metrics/leaderboard"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
	"github.com/LiraCode/ecotrack-sub002/app/shared/auth"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// Handlers serves the leaderboard module's HTTP endpoints.
type Handlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	metrics leaderboardmetrics.LeaderboardMetrics
}

// NewHandlers creates the leaderboard HTTP handlers.
func NewHandlers(
	service leaderboardservice.Service,
	logger *slog.Logger,
	metrics leaderboardmetrics.LeaderboardMetrics,
) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// RegisterRoutes mounts the leaderboard endpoints on the given router. All
// routes require a valid bearer token.
func (h *Handlers) RegisterRoutes(r chi.Router, verifier auth.Verifier) {
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(verifier))
		r.Get("/api/rankings", h.HandleGetRanking)
		r.Get("/api/rankings/positions/{userID}", h.HandleGetUserPosition)
	})
}

// HandleGetRanking returns the latest ranking snapshot.
func (h *Handlers) HandleGetRanking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.metrics.RecordOperationAttempt(ctx, "http_get_ranking")

	ranking, err := h.service.GetRanking(ctx)
	if err != nil {
		h.metrics.RecordOperationFailure(ctx, "http_get_ranking")
		h.logger.ErrorContext(ctx, "Failed to get ranking", attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordOperationSuccess(ctx, "http_get_ranking")
	respondJSON(w, http.StatusOK, ranking)
}

type userPositionResponse struct {
	UserID   sharedtypes.UserID `json:"user_id"`
	Position int                `json:"position"`
}

// HandleGetUserPosition returns the user's 1-based position. Users with no
// completed goals get position 0 rather than 404.
func (h *Handlers) HandleGetUserPosition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := sharedtypes.UserID(chi.URLParam(r, "userID"))
	if userID == "" {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}

	position, err := h.service.GetUserPosition(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to get user position",
			attr.UserID("user_id", userID),
			attr.Error(err),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, userPositionResponse{UserID: userID, Position: position})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
