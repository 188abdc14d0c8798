package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lifeline/internal/donor/eligibility"
	"lifeline/internal/donor/models"
	donorStore "lifeline/internal/donor/store/memory"
	"lifeline/internal/platform/events"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/geo"
	"lifeline/pkg/requestcontext"
)

type DonorServiceSuite struct {
	suite.Suite
	store     *donorStore.Store
	publisher *events.MemoryPublisher
	service   *Service
	now       time.Time
	ctx       context.Context
}

func TestDonorServiceSuite(t *testing.T) {
	suite.Run(t, new(DonorServiceSuite))
}

func (s *DonorServiceSuite) SetupTest() {
	s.store = donorStore.New()
	s.publisher = events.NewMemoryPublisher()
	s.now = time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	var err error
	s.service, err = New(s.store, WithPublisher(s.publisher))
	s.Require().NoError(err)
}

func (s *DonorServiceSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *DonorServiceSuite) seedDonor(mutate func(*models.DonorRecord)) *models.DonorRecord {
	donor := &models.DonorRecord{
		ID:          id.NewDonorID(),
		Name:        "Asha Tamang",
		BloodGroup:  id.OPositive,
		Age:         32,
		IsDonor:     true,
		IsAvailable: true,
		District:    "Kathmandu",
		CreatedAt:   s.now.AddDate(-1, 0, 0),
	}
	if mutate != nil {
		mutate(donor)
	}
	s.store.Put(donor)
	return donor
}

func (s *DonorServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil)
		s.Error(err)
		s.Contains(err.Error(), "donor store is required")
	})
}

func (s *DonorServiceSuite) TestCheckEligibility() {
	s.Run("unknown donor returns not found", func() {
		_, err := s.service.CheckEligibility(s.ctx, id.NewDonorID(), id.UrgencyHigh)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("resting donor gets a next eligible date", func() {
		donor := s.seedDonor(func(d *models.DonorRecord) {
			last := s.now.AddDate(0, 0, -30)
			d.LastDonation = &last
		})

		res, err := s.service.CheckEligibility(s.ctx, donor.ID, id.UrgencyHigh)
		s.NoError(err)
		s.False(res.Eligible)
		s.Equal(eligibility.ReasonTooSoon, res.Reason)
		s.Require().NotNil(res.NextEligibleDate)
		s.Equal(donor.LastDonation.AddDate(0, 0, 90), *res.NextEligibleDate)
	})
}

func (s *DonorServiceSuite) TestRecordDonation() {
	s.Run("records, counts and awards the first badge", func() {
		donor := s.seedDonor(nil)

		res, err := s.service.RecordDonation(s.ctx, donor.ID, RecordDonationInput{
			Type:     models.DonationWholeBlood,
			Location: "Bir Hospital",
		})
		s.Require().NoError(err)
		s.Equal(1, res.TotalCount)
		s.Equal([]string{"First Donation"}, res.NewBadges)

		stored, err := s.store.Get(s.ctx, donor.ID)
		s.Require().NoError(err)
		s.Equal([]string{"First Donation"}, stored.Badges)
		s.Require().NotNil(stored.LastDonation)
		s.Equal(s.now, *stored.LastDonation)
	})

	s.Run("emits donation and badge events", func() {
		donor := s.seedDonor(nil)

		_, err := s.service.RecordDonation(s.ctx, donor.ID, RecordDonationInput{
			Type: models.DonationPlatelets,
		})
		s.Require().NoError(err)

		s.Len(s.publisher.OfType(events.TypeDonationRecorded), 1)
		badgeEvents := s.publisher.OfType(events.TypeBadgeAwarded)
		s.Require().Len(badgeEvents, 1)
		s.Equal(donor.ID.String(), badgeEvents[0].Subject)
		s.Equal("First Donation", badgeEvents[0].Attributes["badge"])
	})

	s.Run("ineligible donor is rejected before any write", func() {
		donor := s.seedDonor(func(d *models.DonorRecord) {
			last := s.now.AddDate(0, 0, -30)
			d.LastDonation = &last
		})

		_, err := s.service.RecordDonation(s.ctx, donor.ID, RecordDonationInput{})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		history, err := s.service.DonationHistory(s.ctx, donor.ID)
		s.NoError(err)
		s.Empty(history)
	})

	s.Run("crossing a threshold awards only the missing badge", func() {
		donor := s.seedDonor(func(d *models.DonorRecord) {
			d.TotalDonations = 9
			d.Badges = []string{"First Donation", "Regular Donor"}
		})

		res, err := s.service.RecordDonation(s.ctx, donor.ID, RecordDonationInput{})
		s.Require().NoError(err)
		s.Equal(10, res.TotalCount)
		s.Equal([]string{"Dedicated Donor"}, res.NewBadges)

		// Recording again immediately is blocked by the rest window, so run a
		// fresh evaluation later instead: the merged badge set earns nothing.
		stored, err := s.store.Get(s.ctx, donor.ID)
		s.Require().NoError(err)
		s.Equal([]string{"First Donation", "Regular Donor", "Dedicated Donor"}, stored.Badges)
	})
}

func (s *DonorServiceSuite) TestVerifyDonation() {
	donor := s.seedDonor(nil)
	res, err := s.service.RecordDonation(s.ctx, donor.ID, RecordDonationInput{})
	s.Require().NoError(err)

	s.NoError(s.service.VerifyDonation(s.ctx, res.Donation.ID))

	history, err := s.service.DonationHistory(s.ctx, donor.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.True(history[0].Verified)
}

func (s *DonorServiceSuite) TestFindNearby() {
	origin := geo.Coordinate{Latitude: 27.7172, Longitude: 85.3240}

	near := s.seedDonor(func(d *models.DonorRecord) {
		d.Coordinate = &geo.Coordinate{Latitude: 27.72, Longitude: 85.33}
	})
	s.seedDonor(func(d *models.DonorRecord) {
		// Pokhara, well outside a 10km radius.
		d.Coordinate = &geo.Coordinate{Latitude: 28.2096, Longitude: 83.9856}
	})
	s.seedDonor(func(d *models.DonorRecord) {
		d.Coordinate = nil // unplaceable
	})
	s.seedDonor(func(d *models.DonorRecord) {
		d.Coordinate = &geo.Coordinate{Latitude: 27.71, Longitude: 85.32}
		last := s.now.AddDate(0, 0, -10)
		d.LastDonation = &last // ineligible
	})

	got, err := s.service.FindNearby(s.ctx, origin, 0, id.OPositive)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(near.ID, got[0].Donor.ID)
	s.Less(got[0].DistanceKm, 10.0)
}

func (s *DonorServiceSuite) TestStats() {
	s.seedDonor(nil)
	s.seedDonor(func(d *models.DonorRecord) { d.IsAvailable = false })

	stats, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, stats.TotalDonors)
	s.Equal(1, stats.ActiveDonors)
}
