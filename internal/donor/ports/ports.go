// Package ports defines the store boundary for the donor module.
// The core operates on read snapshots; the only mutations are the atomic
// donation write and badge persistence.
package ports

import (
	"context"
	"time"

	"lifeline/internal/donor/models"
	"lifeline/internal/platform/events"
	id "lifeline/pkg/domain"
)

// DonorStore is the persistence boundary for donors and their donations.
//
// FindCandidates is the SpatialCandidateSource seam: today every
// implementation returns the full filtered set and callers do O(n) distance
// filtering in memory; a spatial index can replace that behind this interface
// without touching the matcher.
type DonorStore interface {
	// Get returns the donor or a CodeNotFound error.
	Get(ctx context.Context, donorID id.DonorID) (*models.DonorRecord, error)

	// FindCandidates returns donors filtered by blood group and district.
	// An empty bloodGroup or district means "any". District matching is
	// exact (case-insensitive); substring matching from older deployments
	// was dropped deliberately.
	FindCandidates(ctx context.Context, bloodGroup id.BloodGroup, district string) ([]*models.DonorRecord, error)

	// RecordDonationAtomic appends the donation event, increments the
	// donor's total and sets the last-donation timestamp as one atomic unit.
	// Returns the updated cumulative total. Fails all-or-nothing.
	RecordDonationAtomic(ctx context.Context, donorID id.DonorID, event *models.DonationEvent) (int, error)

	// PersistBadges replaces the donor's badge set.
	PersistBadges(ctx context.Context, donorID id.DonorID, badges []string) error

	// ListDonations returns the donor's donation history, newest first.
	ListDonations(ctx context.Context, donorID id.DonorID) ([]*models.DonationEvent, error)

	// VerifyDonation marks a donation as verified by an external authority.
	VerifyDonation(ctx context.Context, donationID id.DonationID) error

	// Stats aggregates dashboard counters as of now.
	Stats(ctx context.Context, now time.Time) (*models.DonorStats, error)
}

// EventPublisher emits domain events for downstream notification dispatch.
type EventPublisher = events.Publisher
