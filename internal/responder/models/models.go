// Package models holds the emergency responder aggregate.
package models

import (
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/geo"
)

// Rating bounds accepted from callers.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// Responder is an ambulance or transport service that can be dispatched for
// blood delivery.
//
// Invariants:
//   - Rating is a running mean over RatingCount submissions; both move
//     together and only through the store's atomic Rate operation
//   - Only active and verified responders are dispatchable
type Responder struct {
	ID                 id.ResponderID    `json:"id"`
	Name               string            `json:"name"`
	Phone              string            `json:"phone"`
	District           string            `json:"district"`
	City               string            `json:"city"`
	Capability         id.CapabilityTier `json:"capability"`
	Is24Hours          bool              `json:"is_24_hours"`
	AvgResponseMinutes float64           `json:"avg_response_minutes"`
	Rating             float64           `json:"rating"`
	RatingCount        int               `json:"rating_count"`
	Active             bool              `json:"active"`
	Verified           bool              `json:"verified"`
	Coordinate         *geo.Coordinate   `json:"coordinate,omitempty"`
}

// Dispatchable reports whether the responder may be offered to callers.
func (r *Responder) Dispatchable() bool {
	return r.Active && r.Verified
}

// CanServe reports whether the responder meets the required capability tier.
// Round-the-clock services are kept as a fallback even below the tier.
func (r *Responder) CanServe(required id.CapabilityTier) bool {
	return r.Capability.Satisfies(required) || r.Is24Hours
}

// ApplyRating folds one rating into the running mean. Ratings outside [1,5]
// are rejected.
func (r *Responder) ApplyRating(rating float64) error {
	if rating < MinRating || rating > MaxRating {
		return dErrors.Newf(dErrors.CodeInvalidInput, "rating must be between %.0f and %.0f", MinRating, MaxRating)
	}
	r.Rating = (r.Rating*float64(r.RatingCount) + rating) / float64(r.RatingCount+1)
	r.RatingCount++
	return nil
}
