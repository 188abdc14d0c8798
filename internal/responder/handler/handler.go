// Package handler exposes responder lookup and rating over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lifeline/internal/responder/models"
	"lifeline/internal/responder/service"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/geo"
	"lifeline/pkg/platform/httputil"
)

// Locator defines the responder operations the handler needs.
type Locator interface {
	Locate(ctx context.Context, req service.LocateRequest) ([]service.Located, error)
	Rate(ctx context.Context, responderID id.ResponderID, rating float64) (*models.Responder, error)
}

// Handler handles responder-related endpoints.
type Handler struct {
	locator Locator
	logger  *slog.Logger
}

// New creates a responder Handler.
func New(locator Locator, logger *slog.Logger) *Handler {
	return &Handler{locator: locator, logger: logger}
}

// Register mounts the responder routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/responders", h.handleLocate)
	r.Post("/responders/{responderID}/rating", h.handleRate)
}

func (h *Handler) handleLocate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := service.LocateRequest{District: q.Get("district")}

	if raw := q.Get("capability"); raw != "" {
		capability, err := id.ParseCapabilityTier(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		req.Capability = capability
	}

	if latRaw, lonRaw := q.Get("latitude"), q.Get("longitude"); latRaw != "" || lonRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lon, lonErr := strconv.ParseFloat(lonRaw, 64)
		if latErr != nil || lonErr != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "latitude and longitude must be given together"))
			return
		}
		req.Origin = &geo.Coordinate{Latitude: lat, Longitude: lon}
	}

	if raw := q.Get("radius_km"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "radius_km must be a number"))
			return
		}
		req.RadiusKm = radius
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "limit must be an integer"))
			return
		}
		req.Limit = limit
	}

	responders, err := h.locator.Locate(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"responders": responders,
		"count":      len(responders),
	})
}

type rateRequest struct {
	Rating float64 `json:"rating"`
}

func (h *Handler) handleRate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	responderID, err := id.ParseResponderID(chi.URLParam(r, "responderID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	updated, err := h.locator.Rate(ctx, responderID, req.Rating)
	if err != nil {
		h.logger.WarnContext(ctx, "rate responder failed", "responder_id", responderID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}
