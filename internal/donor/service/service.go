// Package service orchestrates donor eligibility checks, donation recording
// and badge progression over the store boundary.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"lifeline/internal/donor/badges"
	"lifeline/internal/donor/eligibility"
	donormetrics "lifeline/internal/donor/metrics"
	"lifeline/internal/donor/models"
	"lifeline/internal/donor/ports"
	"lifeline/internal/platform/events"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/geo"
	"lifeline/pkg/requestcontext"
)

// Store is the store dependency alias, matching the ports interface.
type Store = ports.DonorStore

// Service exposes donor-facing operations. All reads are pure over a fetched
// snapshot; RecordDonation is the one write path and delegates atomicity to
// the store.
type Service struct {
	store     Store
	publisher ports.EventPublisher
	logger    *slog.Logger
	metrics   *donormetrics.Metrics
}

// Option configures optional dependencies.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithPublisher attaches a domain event publisher.
func WithPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// WithMetrics attaches prometheus metrics.
func WithMetrics(m *donormetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the donor service.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("donor store is required")
	}
	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CheckEligibility evaluates whether the donor may donate right now.
// Ineligibility is a normal result; only missing donors and store failures
// are errors.
func (s *Service) CheckEligibility(ctx context.Context, donorID id.DonorID, urgency id.UrgencyTier) (eligibility.Result, error) {
	donor, err := s.store.Get(ctx, donorID)
	if err != nil {
		return eligibility.Result{}, err
	}
	return eligibility.Evaluate(donor, requestcontext.Now(ctx), urgency), nil
}

// RecordDonationInput carries the caller-supplied donation fields.
type RecordDonationInput struct {
	Type         models.DonationType
	Location     string
	Organization string
}

// RecordDonationResult reports the outcome of a recorded donation.
type RecordDonationResult struct {
	Donation   *models.DonationEvent `json:"donation"`
	TotalCount int                   `json:"total_count"`
	NewBadges  []string              `json:"new_badges"`
}

// RecordDonation gates on eligibility, writes the donation atomically, then
// recomputes and persists badges. The store guarantees the event insert and
// counter increment apply as one transaction; badge persistence is a separate
// write whose failure is surfaced, not swallowed.
func (s *Service) RecordDonation(ctx context.Context, donorID id.DonorID, input RecordDonationInput) (*RecordDonationResult, error) {
	donor, err := s.store.Get(ctx, donorID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	res := eligibility.Evaluate(donor, now, id.UrgencyTier(""))
	if !res.Eligible {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "donor is not eligible to donate: %s", res.Reason)
	}

	event := &models.DonationEvent{
		ID:           id.NewDonationID(),
		DonorID:      donorID,
		DonatedAt:    now,
		Type:         input.Type,
		Location:     input.Location,
		Organization: input.Organization,
		Verified:     false,
	}

	total, err := s.store.RecordDonationAtomic(ctx, donorID, event)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to record donation")
	}
	if s.metrics != nil {
		s.metrics.IncrementDonationsRecorded()
	}

	earned := badges.Compute(total, donor.Badges)
	if len(earned) > 0 {
		merged := badges.Merge(donor.Badges, earned)
		if err := s.store.PersistBadges(ctx, donorID, merged); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to persist badges")
		}
		if s.metrics != nil {
			s.metrics.AddBadgesAwarded(len(earned))
		}
		for _, badge := range earned {
			s.emit(ctx, events.Event{
				Type:       events.TypeBadgeAwarded,
				Subject:    donorID.String(),
				OccurredAt: now,
				Attributes: map[string]string{"badge": badge},
			})
		}
	}

	s.emit(ctx, events.Event{
		Type:       events.TypeDonationRecorded,
		Subject:    donorID.String(),
		OccurredAt: now,
		Attributes: map[string]string{
			"donation_id": event.ID.String(),
			"type":        string(event.Type),
		},
	})

	if s.logger != nil {
		s.logger.InfoContext(ctx, "donation recorded",
			"donor_id", donorID,
			"donation_id", event.ID,
			"total", total,
			"new_badges", len(earned),
		)
	}

	return &RecordDonationResult{Donation: event, TotalCount: total, NewBadges: earned}, nil
}

// VerifyDonation marks a recorded donation as verified.
func (s *Service) VerifyDonation(ctx context.Context, donationID id.DonationID) error {
	return s.store.VerifyDonation(ctx, donationID)
}

// DonationHistory returns the donor's donation history, newest first.
func (s *Service) DonationHistory(ctx context.Context, donorID id.DonorID) ([]*models.DonationEvent, error) {
	if _, err := s.store.Get(ctx, donorID); err != nil {
		return nil, err
	}
	return s.store.ListDonations(ctx, donorID)
}

// NearbyDonor is a donor with a computed distance from the query origin.
type NearbyDonor struct {
	Donor      *models.DonorRecord `json:"donor"`
	DistanceKm float64             `json:"distance_km"`
}

// DefaultNearbyRadiusKm bounds nearby searches when the caller gives none.
const DefaultNearbyRadiusKm = 10.0

// FindNearby returns eligible donors with known coordinates within radiusKm
// of origin, sorted by ascending distance. Donors without coordinates cannot
// be placed and are omitted here, unlike the emergency matcher which keeps
// them at the end of its ranking.
func (s *Service) FindNearby(ctx context.Context, origin geo.Coordinate, radiusKm float64, bloodGroup id.BloodGroup) ([]NearbyDonor, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadiusKm
	}

	candidates, err := s.store.FindCandidates(ctx, bloodGroup, "")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to fetch candidates")
	}

	now := requestcontext.Now(ctx)
	nearby := make([]NearbyDonor, 0, len(candidates))
	for _, d := range candidates {
		if d.Coordinate == nil {
			continue
		}
		if !eligibility.Evaluate(d, now, id.UrgencyTier("")).Eligible {
			continue
		}
		dist := geo.DistanceKm(origin, *d.Coordinate)
		if dist <= radiusKm {
			nearby = append(nearby, NearbyDonor{Donor: d, DistanceKm: dist})
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}

// Stats returns aggregate donor counters for dashboards.
func (s *Service) Stats(ctx context.Context) (*models.DonorStats, error) {
	stats, err := s.store.Stats(ctx, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to aggregate donor stats")
	}
	return stats, nil
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.publisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "event emit failed", "type", event.Type, "error", err)
	}
}
