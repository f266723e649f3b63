// Package scoreapi exposes the score module over HTTP: collection report
// ingestion and per-user points lookups.
package scoreapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"

	scoreservice "github.com/LiraCode/ecotrack-sub002/app/modules/score/application"
	scoreevents "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/events"
	"github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/parsers"
	scoremetrics "github.com/LiraCode/ecotrack-sub002/app/observability/metrics/score"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
	"github.com/LiraCode/ecotrack-sub002/app/shared/auth"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
	sharedutils "github.com/LiraCode/ecotrack-sub002/app/shared/utils"
)

// maxReportSize caps uploaded report bodies at 10 MiB.
const maxReportSize = 10 << 20

// Handlers serves the score module's HTTP endpoints.
type Handlers struct {
	service   scoreservice.Service
	parser    *parsers.XLSXParser
	publisher message.Publisher
	logger    *slog.Logger
	metrics   scoremetrics.ScoreMetrics
}

// NewHandlers creates the score HTTP handlers.
func NewHandlers(
	service scoreservice.Service,
	parser *parsers.XLSXParser,
	publisher message.Publisher,
	logger *slog.Logger,
	metrics scoremetrics.ScoreMetrics,
) *Handlers {
	return &Handlers{
		service:   service,
		parser:    parser,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// RegisterRoutes mounts the score endpoints on the given router. All routes
// require a valid bearer token.
func (h *Handlers) RegisterRoutes(r chi.Router, verifier auth.Verifier) {
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(verifier))
		r.Post("/api/reports", h.HandleUploadReport)
		r.Get("/api/users/{userID}/points", h.HandleGetUserPoints)
	})
}

type uploadReportResponse struct {
	EventsAccepted int `json:"events_accepted"`
}

// HandleUploadReport accepts an xlsx collection report, parses it into
// collection events, and publishes them for the progress pipeline to apply.
// The response acknowledges receipt; applying happens asynchronously.
func (h *Handlers) HandleUploadReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.metrics.RecordOperationAttempt(ctx, "upload_report")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxReportSize))
	if err != nil {
		h.metrics.RecordOperationFailure(ctx, "upload_report")
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "report too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	events, err := h.parser.Parse(body)
	if err != nil {
		h.metrics.RecordOperationFailure(ctx, "upload_report")
		h.logger.WarnContext(ctx, "Rejected unparseable collection report", attr.Error(err))
		http.Error(w, "invalid report: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	var uploaderID string
	if claims := auth.ClaimsFromContext(ctx); claims != nil {
		uploaderID = string(claims.UserID)
	}
	for _, event := range events {
		msg, err := sharedutils.NewEventMessage(
			scoreevents.CollectionEventRecordedPayloadV1{Event: event},
			scoreevents.CollectionEventRecordedV1,
		)
		if err != nil {
			h.metrics.RecordOperationFailure(ctx, "upload_report")
			h.logger.ErrorContext(ctx, "Failed to build collection event message", attr.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if err := h.publisher.Publish(scoreevents.CollectionEventRecordedV1, msg); err != nil {
			h.metrics.RecordOperationFailure(ctx, "upload_report")
			h.logger.ErrorContext(ctx, "Failed to publish collection event", attr.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	h.metrics.RecordOperationSuccess(ctx, "upload_report")
	h.logger.InfoContext(ctx, "Collection report accepted",
		attr.String("uploader_id", uploaderID),
		attr.Int("events", len(events)),
	)
	respondJSON(w, http.StatusAccepted, uploadReportResponse{EventsAccepted: len(events)})
}

type userPointsResponse struct {
	UserID sharedtypes.UserID `json:"user_id"`
	Points sharedtypes.Points `json:"points"`
}

// HandleGetUserPoints returns the user's accumulated points. Unknown users
// get zero, not 404, matching the service semantics.
func (h *Handlers) HandleGetUserPoints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := sharedtypes.UserID(chi.URLParam(r, "userID"))
	if userID == "" {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}

	points, err := h.service.GetUserPoints(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to get user points",
			attr.UserID("user_id", userID),
			attr.Error(err),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, userPointsResponse{UserID: userID, Points: points})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
