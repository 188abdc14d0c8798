// Package handler exposes the emergency matching endpoint over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lifeline/internal/emergency/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/geo"
	"lifeline/pkg/platform/httputil"
)

// Matcher defines the emergency operation the handler needs.
type Matcher interface {
	Match(ctx context.Context, req models.MatchRequest) ([]models.Candidate, error)
}

// Handler handles emergency matching endpoints.
type Handler struct {
	matcher Matcher
	logger  *slog.Logger
}

// New creates an emergency Handler.
func New(matcher Matcher, logger *slog.Logger) *Handler {
	return &Handler{matcher: matcher, logger: logger}
}

// Register mounts the emergency routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/emergency/donors", h.handleMatch)
}

type matchRequest struct {
	BloodGroup string   `json:"blood_group"`
	District   string   `json:"district"`
	Urgency    string   `json:"urgency"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	RadiusKm   float64  `json:"radius_km,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

func (h *Handler) handleMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	bloodGroup, err := id.ParseBloodGroup(req.BloodGroup)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	urgency, err := id.ParseUrgencyTier(req.Urgency)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var origin *geo.Coordinate
	if req.Latitude != nil || req.Longitude != nil {
		if req.Latitude == nil || req.Longitude == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "latitude and longitude must be given together"))
			return
		}
		origin = &geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	candidates, err := h.matcher.Match(ctx, models.MatchRequest{
		BloodGroup: bloodGroup,
		District:   req.District,
		Urgency:    urgency,
		Origin:     origin,
		RadiusKm:   req.RadiusKm,
		Limit:      req.Limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "emergency match failed", "blood_group", req.BloodGroup, "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"candidates": candidates,
		"count":      len(candidates),
	})
}
