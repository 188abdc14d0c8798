// Package service implements the emergency donor matcher: given a blood group
// and an urgency tier it ranks eligible donors by their likelihood of a fast
// response.
package service

//go:generate mockgen -source=matcher.go -destination=mocks/mocks.go -package=mocks CandidateSource

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"lifeline/internal/donor/eligibility"
	donorModels "lifeline/internal/donor/models"
	emergencymetrics "lifeline/internal/emergency/metrics"
	"lifeline/internal/emergency/models"
	"lifeline/internal/emergency/scoring"
	"lifeline/internal/platform/events"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/geo"
	"lifeline/pkg/requestcontext"
)

// CandidateSource supplies donors pre-filtered by blood group and district.
// The donor store satisfies this; the matcher never needs its write surface.
type CandidateSource interface {
	FindCandidates(ctx context.Context, bloodGroup id.BloodGroup, district string) ([]*donorModels.DonorRecord, error)
}

// Matcher ranks donors for emergency blood requests. Stateless between calls;
// every ranking is computed fresh from the candidate source.
type Matcher struct {
	source    CandidateSource
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *emergencymetrics.Metrics
}

// Option configures optional dependencies.
type Option func(*Matcher)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) { m.logger = logger }
}

// WithPublisher attaches a domain event publisher.
func WithPublisher(publisher events.Publisher) Option {
	return func(m *Matcher) { m.publisher = publisher }
}

// WithMetrics attaches prometheus metrics.
func WithMetrics(metrics *emergencymetrics.Metrics) Option {
	return func(m *Matcher) { m.metrics = metrics }
}

// New constructs the emergency matcher.
func New(source CandidateSource, opts ...Option) (*Matcher, error) {
	if source == nil {
		return nil, fmt.Errorf("candidate source is required")
	}
	m := &Matcher{source: source}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Match returns donors ranked for the given request, best first.
//
// Ranking: response score descending, then distance ascending (donors whose
// position is unknown sort after every located donor rather than being
// dropped), then longest-rested first with never-donated donors ahead of all.
// Donors with known coordinates outside the requested radius are excluded;
// an empty result is a normal outcome, not an error.
func (m *Matcher) Match(ctx context.Context, req models.MatchRequest) ([]models.Candidate, error) {
	if req.BloodGroup == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "blood group is required")
	}
	if req.District == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "district is required")
	}
	urgency := req.Urgency
	if urgency == "" {
		urgency = id.UrgencyHigh
	}
	limit := req.Limit
	if limit <= 0 {
		limit = models.DefaultMatchLimit
	}

	donors, err := m.source.FindCandidates(ctx, req.BloodGroup, req.District)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to fetch candidates")
	}

	now := requestcontext.Now(ctx)
	candidates := make([]models.Candidate, 0, len(donors))
	for _, d := range donors {
		if !eligibility.Evaluate(d, now, urgency).Eligible {
			continue
		}

		var distance *float64
		if req.Origin != nil && d.Coordinate != nil {
			km := geo.DistanceKm(*req.Origin, *d.Coordinate)
			if req.RadiusKm > 0 && km > req.RadiusKm {
				continue
			}
			distance = &km
		}

		candidates = append(candidates, models.Candidate{
			Donor:                    d,
			ResponseScore:            scoring.Score(d, urgency, now),
			EstimatedResponseMinutes: scoring.EstimateResponseMinutes(d, urgency),
			DistanceKm:               distance,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.ResponseScore != b.ResponseScore {
			return a.ResponseScore > b.ResponseScore
		}
		if c := compareDistance(a.DistanceKm, b.DistanceKm); c != 0 {
			return c < 0
		}
		return restedBefore(a.Donor, b.Donor)
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	m.emit(ctx, req, urgency, now, len(candidates))
	if m.metrics != nil {
		m.metrics.ObserveMatch(string(urgency), len(candidates))
	}
	if m.logger != nil {
		m.logger.InfoContext(ctx, "emergency match served",
			"blood_group", req.BloodGroup,
			"urgency", urgency,
			"district", req.District,
			"candidates", len(candidates),
		)
	}
	return candidates, nil
}

// compareDistance orders known distances ascending and puts unknown ones last.
func compareDistance(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}

// restedBefore breaks remaining ties: never-donated donors first, then the
// donor who has rested longest.
func restedBefore(a, b *donorModels.DonorRecord) bool {
	switch {
	case a.LastDonation == nil && b.LastDonation == nil:
		return false
	case a.LastDonation == nil:
		return true
	case b.LastDonation == nil:
		return false
	default:
		return a.LastDonation.Before(*b.LastDonation)
	}
}

func (m *Matcher) emit(ctx context.Context, req models.MatchRequest, urgency id.UrgencyTier, now time.Time, matched int) {
	if m.publisher == nil {
		return
	}
	event := events.Event{
		Type:       events.TypeEmergencyRequest,
		Subject:    string(req.BloodGroup),
		OccurredAt: now,
		RequestID:  requestcontext.RequestID(ctx),
		Attributes: map[string]string{
			"urgency":  string(urgency),
			"district": req.District,
			"matched":  strconv.Itoa(matched),
		},
	}
	if err := m.publisher.Emit(ctx, event); err != nil && m.logger != nil {
		m.logger.WarnContext(ctx, "event emit failed", "type", event.Type, "error", err)
	}
}
