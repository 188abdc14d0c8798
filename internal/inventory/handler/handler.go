// Package handler exposes inventory estimates and blood request intake over
// HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lifeline/internal/inventory/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/platform/httputil"
)

// Estimator defines the inventory operations the handler needs.
type Estimator interface {
	Estimate(ctx context.Context, bloodGroup id.BloodGroup, district string) (*models.Snapshot, error)
	Summary(ctx context.Context, district string) ([]*models.Snapshot, error)
	Shortages(ctx context.Context, district string) ([]*models.Snapshot, error)
	SubmitRequest(ctx context.Context, request *models.BloodRequest) (*models.BloodRequest, error)
}

// Handler handles inventory-related endpoints.
type Handler struct {
	inventory Estimator
	logger    *slog.Logger
}

// New creates an inventory Handler.
func New(inventory Estimator, logger *slog.Logger) *Handler {
	return &Handler{inventory: inventory, logger: logger}
}

// Register mounts the inventory routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/inventory", h.handleSummary)
	r.Get("/inventory/shortages", h.handleShortages)
	r.Get("/inventory/{bloodGroup}", h.handleEstimate)
	r.Post("/requests", h.handleSubmitRequest)
}

func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	bloodGroup, err := id.ParseBloodGroup(chi.URLParam(r, "bloodGroup"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	snapshot, err := h.inventory.Estimate(r.Context(), bloodGroup, r.URL.Query().Get("district"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.inventory.Summary(r.Context(), r.URL.Query().Get("district"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"inventory": snapshots})
}

func (h *Handler) handleShortages(w http.ResponseWriter, r *http.Request) {
	shortages, err := h.inventory.Shortages(r.Context(), r.URL.Query().Get("district"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"shortages": shortages,
		"count":     len(shortages),
	})
}

type submitRequestBody struct {
	BloodGroup    string    `json:"blood_group"`
	District      string    `json:"district"`
	UnitsRequired int       `json:"units_required"`
	Urgency       string    `json:"urgency"`
	RequiredBy    time.Time `json:"required_by"`
}

func (h *Handler) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body submitRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	bloodGroup, err := id.ParseBloodGroup(body.BloodGroup)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var urgency id.UrgencyTier
	if body.Urgency != "" {
		if urgency, err = id.ParseUrgencyTier(body.Urgency); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	created, err := h.inventory.SubmitRequest(ctx, &models.BloodRequest{
		BloodGroup:    bloodGroup,
		District:      body.District,
		UnitsRequired: body.UnitsRequired,
		Urgency:       urgency,
		RequiredBy:    body.RequiredBy,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit blood request failed", "blood_group", body.BloodGroup, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}
