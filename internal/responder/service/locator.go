// Package service locates dispatchable emergency responders and maintains
// their community ratings.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"lifeline/internal/responder/models"
	"lifeline/internal/responder/ports"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/geo"
)

// DefaultLocateLimit caps responder listings when the caller gives none.
const DefaultLocateLimit = 10

// Locator serves responder lookups over the store boundary.
type Locator struct {
	store  ports.ResponderStore
	logger *slog.Logger
}

// Option configures optional dependencies.
type Option func(*Locator)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) { l.logger = logger }
}

// New constructs the responder locator.
func New(store ports.ResponderStore, opts ...Option) (*Locator, error) {
	if store == nil {
		return nil, fmt.Errorf("responder store is required")
	}
	l := &Locator{store: store}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// LocateRequest describes a search for dispatchable responders.
type LocateRequest struct {
	District   string
	Capability id.CapabilityTier
	Origin     *geo.Coordinate
	RadiusKm   float64
	Limit      int
}

// Located is a responder with its computed distance from the query origin.
type Located struct {
	Responder *models.Responder `json:"responder"`
	// DistanceKm is nil when the query has no origin or the responder's
	// position is unknown.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// Locate returns dispatchable responders for the district, best first:
// fastest average response, then highest rated, then nearest. Responders with
// known coordinates outside the requested radius are excluded; ones without
// coordinates are kept.
func (l *Locator) Locate(ctx context.Context, req LocateRequest) ([]Located, error) {
	if req.District == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "district is required")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLocateLimit
	}

	responders, err := l.store.FindActive(ctx, req.District)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to fetch responders")
	}

	located := make([]Located, 0, len(responders))
	for _, r := range responders {
		if !r.Dispatchable() || !r.CanServe(req.Capability) {
			continue
		}

		var distance *float64
		if req.Origin != nil && r.Coordinate != nil {
			km := geo.DistanceKm(*req.Origin, *r.Coordinate)
			if req.RadiusKm > 0 && km > req.RadiusKm {
				continue
			}
			distance = &km
		}
		located = append(located, Located{Responder: r, DistanceKm: distance})
	}

	sort.SliceStable(located, func(i, j int) bool {
		a, b := located[i], located[j]
		if a.Responder.AvgResponseMinutes != b.Responder.AvgResponseMinutes {
			return a.Responder.AvgResponseMinutes < b.Responder.AvgResponseMinutes
		}
		if a.Responder.Rating != b.Responder.Rating {
			return a.Responder.Rating > b.Responder.Rating
		}
		switch {
		case a.DistanceKm == nil && b.DistanceKm == nil:
			return false
		case a.DistanceKm == nil:
			return false
		case b.DistanceKm == nil:
			return true
		default:
			return *a.DistanceKm < *b.DistanceKm
		}
	})

	if len(located) > limit {
		located = located[:limit]
	}

	if l.logger != nil {
		l.logger.InfoContext(ctx, "responders located",
			"district", req.District,
			"capability", req.Capability,
			"count", len(located),
		)
	}
	return located, nil
}

// Rate records a caller's rating for a responder and returns the updated
// record. The running-mean fold happens atomically at the store; validation
// happens here so bad input never reaches it.
func (l *Locator) Rate(ctx context.Context, responderID id.ResponderID, rating float64) (*models.Responder, error) {
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "rating must be between %.0f and %.0f", models.MinRating, models.MaxRating)
	}
	updated, err := l.store.Rate(ctx, responderID, rating)
	if err != nil {
		return nil, err
	}
	if l.logger != nil {
		l.logger.InfoContext(ctx, "responder rated",
			"responder_id", responderID,
			"rating", rating,
			"new_average", updated.Rating,
		)
	}
	return updated, nil
}
