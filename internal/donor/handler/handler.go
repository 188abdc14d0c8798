// Package handler exposes donor operations over HTTP. It delegates to the
// donor service and keeps transport concerns out of the core.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lifeline/internal/donor/eligibility"
	donormetrics "lifeline/internal/donor/metrics"
	"lifeline/internal/donor/models"
	"lifeline/internal/donor/service"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/geo"
	"lifeline/pkg/platform/httputil"
)

// Service defines the donor operations the handler needs.
type Service interface {
	CheckEligibility(ctx context.Context, donorID id.DonorID, urgency id.UrgencyTier) (eligibility.Result, error)
	RecordDonation(ctx context.Context, donorID id.DonorID, input service.RecordDonationInput) (*service.RecordDonationResult, error)
	VerifyDonation(ctx context.Context, donationID id.DonationID) error
	DonationHistory(ctx context.Context, donorID id.DonorID) ([]*models.DonationEvent, error)
	FindNearby(ctx context.Context, origin geo.Coordinate, radiusKm float64, bloodGroup id.BloodGroup) ([]service.NearbyDonor, error)
	Stats(ctx context.Context) (*models.DonorStats, error)
}

// Handler handles donor-related endpoints.
type Handler struct {
	donors  Service
	logger  *slog.Logger
	metrics *donormetrics.Metrics
}

// New creates a donor Handler.
func New(donors Service, logger *slog.Logger, metrics *donormetrics.Metrics) *Handler {
	return &Handler{donors: donors, logger: logger, metrics: metrics}
}

// Register mounts the donor routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/donors/stats", h.handleStats)
	r.Get("/donors/nearby", h.handleNearby)
	r.Get("/donors/{donorID}/eligibility", h.handleEligibility)
	r.Get("/donors/{donorID}/donations", h.handleHistory)
	r.Post("/donors/{donorID}/donations", h.handleRecordDonation)
	r.Post("/donations/{donationID}/verify", h.handleVerifyDonation)
}

func (h *Handler) handleEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	donorID, err := id.ParseDonorID(chi.URLParam(r, "donorID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	urgency, err := id.ParseUrgencyTier(r.URL.Query().Get("urgency"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.donors.CheckEligibility(ctx, donorID, urgency)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.IncrementEligibilityChecks()
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type recordDonationRequest struct {
	Type         string `json:"type"`
	Location     string `json:"location"`
	Organization string `json:"organization"`
}

func (h *Handler) handleRecordDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	donorID, err := id.ParseDonorID(chi.URLParam(r, "donorID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req recordDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	donationType, err := models.ParseDonationType(req.Type)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.donors.RecordDonation(ctx, donorID, service.RecordDonationInput{
		Type:         donationType,
		Location:     req.Location,
		Organization: req.Organization,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record donation failed", "donor_id", donorID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleVerifyDonation(w http.ResponseWriter, r *http.Request) {
	donationID, err := id.ParseDonationID(chi.URLParam(r, "donationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.donors.VerifyDonation(r.Context(), donationID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	donorID, err := id.ParseDonorID(chi.URLParam(r, "donorID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	history, err := h.donors.DonationHistory(r.Context(), donorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"donations": history})
}

func (h *Handler) handleNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, latErr := strconv.ParseFloat(q.Get("latitude"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("longitude"), 64)
	if latErr != nil || lonErr != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "latitude and longitude are required"))
		return
	}

	radiusKm := 0.0
	if raw := q.Get("radius_km"); raw != "" {
		var err error
		if radiusKm, err = strconv.ParseFloat(raw, 64); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "radius_km must be a number"))
			return
		}
	}

	var bloodGroup id.BloodGroup
	if raw := q.Get("blood_group"); raw != "" {
		var err error
		if bloodGroup, err = id.ParseBloodGroup(raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	donors, err := h.donors.FindNearby(r.Context(), geo.Coordinate{Latitude: lat, Longitude: lon}, radiusKm, bloodGroup)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"donors": donors,
		"count":  len(donors),
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.donors.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
