// Package models holds the emergency matching request and candidate types.
package models

import (
	donorModels "lifeline/internal/donor/models"
	id "lifeline/pkg/domain"
	"lifeline/pkg/geo"
)

// DefaultMatchLimit caps the ranked donor list when the caller gives none.
const DefaultMatchLimit = 20

// MatchRequest describes an urgent search for compatible donors.
type MatchRequest struct {
	BloodGroup id.BloodGroup   `json:"blood_group"`
	District   string          `json:"district"`
	Urgency    id.UrgencyTier  `json:"urgency"`
	Origin     *geo.Coordinate `json:"origin,omitempty"`
	RadiusKm   float64         `json:"radius_km,omitempty"`
	Limit      int             `json:"limit,omitempty"`
}

// Candidate is a donor enriched with the derived emergency ranking fields.
// Ephemeral: computed per query, never persisted.
type Candidate struct {
	Donor                    *donorModels.DonorRecord `json:"donor"`
	ResponseScore            int                      `json:"response_score"`
	EstimatedResponseMinutes int                      `json:"estimated_response_minutes"`
	// DistanceKm is nil when the query has no origin or the donor has no
	// known coordinates.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}
