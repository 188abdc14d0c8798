// Package memory provides the in-memory donor store used by unit tests and
// single-node development runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"lifeline/internal/donor/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

// Store keeps donors and donations in maps guarded by a RWMutex.
type Store struct {
	mu        sync.RWMutex
	donors    map[id.DonorID]*models.DonorRecord
	donations map[id.DonationID]*models.DonationEvent
}

// New constructs an empty in-memory donor store.
func New() *Store {
	return &Store{
		donors:    make(map[id.DonorID]*models.DonorRecord),
		donations: make(map[id.DonationID]*models.DonationEvent),
	}
}

// Put upserts a donor record. Used by seeds and tests.
func (s *Store) Put(donor *models.DonorRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *donor
	s.donors[donor.ID] = &cp
}

func (s *Store) Get(_ context.Context, donorID id.DonorID) (*models.DonorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	donor, ok := s.donors[donorID]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "donor %s not found", donorID)
	}
	cp := *donor
	return &cp, nil
}

func (s *Store) FindCandidates(_ context.Context, bloodGroup id.BloodGroup, district string) ([]*models.DonorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.DonorRecord
	for _, donor := range s.donors {
		if bloodGroup != "" && donor.BloodGroup != bloodGroup {
			continue
		}
		if district != "" && !strings.EqualFold(donor.District, district) {
			continue
		}
		cp := *donor
		out = append(out, &cp)
	}

	// Stable order for deterministic tests: longest-rested first, nulls first.
	sort.Slice(out, func(i, j int) bool {
		li, lj := out[i].LastDonation, out[j].LastDonation
		switch {
		case li == nil && lj == nil:
			return out[i].ID.String() < out[j].ID.String()
		case li == nil:
			return true
		case lj == nil:
			return false
		default:
			return li.Before(*lj)
		}
	})
	return out, nil
}

func (s *Store) RecordDonationAtomic(_ context.Context, donorID id.DonorID, event *models.DonationEvent) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	donor, ok := s.donors[donorID]
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeNotFound, "donor %s not found", donorID)
	}

	cp := *event
	s.donations[event.ID] = &cp

	donor.TotalDonations++
	donatedAt := event.DonatedAt
	donor.LastDonation = &donatedAt
	return donor.TotalDonations, nil
}

func (s *Store) PersistBadges(_ context.Context, donorID id.DonorID, badges []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	donor, ok := s.donors[donorID]
	if !ok {
		return dErrors.Newf(dErrors.CodeNotFound, "donor %s not found", donorID)
	}
	donor.Badges = append([]string(nil), badges...)
	return nil
}

func (s *Store) ListDonations(_ context.Context, donorID id.DonorID) ([]*models.DonationEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.DonationEvent
	for _, d := range s.donations {
		if d.DonorID == donorID {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DonatedAt.After(out[j].DonatedAt)
	})
	return out, nil
}

func (s *Store) VerifyDonation(_ context.Context, donationID id.DonationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	donation, ok := s.donations[donationID]
	if !ok {
		return dErrors.Newf(dErrors.CodeNotFound, "donation %s not found", donationID)
	}
	donation.Verified = true
	return nil
}

func (s *Store) Stats(_ context.Context, now time.Time) (*models.DonorStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	restWindow := now.AddDate(0, 0, -90)

	stats := &models.DonorStats{}
	for _, donor := range s.donors {
		if !donor.IsDonor {
			continue
		}
		stats.TotalDonors++
		if donor.IsAvailable && (donor.LastDonation == nil || donor.LastDonation.Before(restWindow)) {
			stats.ActiveDonors++
		}
		if !donor.CreatedAt.Before(startOfMonth) {
			stats.NewDonorsThisMonth++
		}
	}

	verified := 0
	for _, d := range s.donations {
		if !d.Verified {
			continue
		}
		verified++
		if !d.DonatedAt.Before(startOfMonth) {
			stats.DonationsThisMonth++
		}
	}
	stats.LivesSaved = verified * 3
	return stats, nil
}
