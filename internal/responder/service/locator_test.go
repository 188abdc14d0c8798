package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"lifeline/internal/responder/models"
	responderStore "lifeline/internal/responder/store/memory"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/geo"
)

type LocatorSuite struct {
	suite.Suite
	store   *responderStore.Store
	locator *Locator
	ctx     context.Context
}

func TestLocatorSuite(t *testing.T) {
	suite.Run(t, new(LocatorSuite))
}

func (s *LocatorSuite) SetupTest() {
	s.store = responderStore.New()
	s.ctx = context.Background()

	var err error
	s.locator, err = New(s.store)
	s.Require().NoError(err)
}

func (s *LocatorSuite) seed(name string, mutate func(*models.Responder)) *models.Responder {
	r := &models.Responder{
		ID:         id.NewResponderID(),
		Name:       name,
		District:   "Kathmandu",
		Capability: id.CapabilityBasic,
		Active:     true,
		Verified:   true,
	}
	if mutate != nil {
		mutate(r)
	}
	s.store.Put(r)
	return r
}

func (s *LocatorSuite) TestLocateValidation() {
	_, err := s.locator.Locate(s.ctx, LocateRequest{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *LocatorSuite) TestLocateFiltersUndispatchable() {
	s.seed("inactive", func(r *models.Responder) { r.Active = false })
	s.seed("unverified", func(r *models.Responder) { r.Verified = false })
	ready := s.seed("ready", nil)

	got, err := s.locator.Locate(s.ctx, LocateRequest{District: "Kathmandu"})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(ready.ID, got[0].Responder.ID)
}

func (s *LocatorSuite) TestLocateCapabilityFallback() {
	s.seed("basic", nil)
	icu := s.seed("icu", func(r *models.Responder) { r.Capability = id.CapabilityICU })
	allNight := s.seed("all-night", func(r *models.Responder) { r.Is24Hours = true })

	got, err := s.locator.Locate(s.ctx, LocateRequest{
		District:   "Kathmandu",
		Capability: id.CapabilityAdvanced,
	})
	s.Require().NoError(err)
	s.Require().Len(got, 2)

	ids := []id.ResponderID{got[0].Responder.ID, got[1].Responder.ID}
	s.Contains(ids, icu.ID)
	s.Contains(ids, allNight.ID)
}

func (s *LocatorSuite) TestLocateOrdering() {
	slow := s.seed("slow", func(r *models.Responder) { r.AvgResponseMinutes = 25 })
	fastLowRated := s.seed("fast-low", func(r *models.Responder) {
		r.AvgResponseMinutes = 10
		r.Rating = 3.2
		r.RatingCount = 5
	})
	fastHighRated := s.seed("fast-high", func(r *models.Responder) {
		r.AvgResponseMinutes = 10
		r.Rating = 4.8
		r.RatingCount = 12
	})

	got, err := s.locator.Locate(s.ctx, LocateRequest{District: "Kathmandu"})
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal(fastHighRated.ID, got[0].Responder.ID)
	s.Equal(fastLowRated.ID, got[1].Responder.ID)
	s.Equal(slow.ID, got[2].Responder.ID)
}

func (s *LocatorSuite) TestLocateGeoFiltering() {
	origin := geo.Coordinate{Latitude: 27.7172, Longitude: 85.3240}

	near := s.seed("near", func(r *models.Responder) {
		r.Coordinate = &geo.Coordinate{Latitude: 27.7100, Longitude: 85.3300}
	})
	s.seed("far", func(r *models.Responder) {
		r.Coordinate = &geo.Coordinate{Latitude: 28.2096, Longitude: 83.9856}
	})
	unplaced := s.seed("unplaced", nil)

	got, err := s.locator.Locate(s.ctx, LocateRequest{
		District: "Kathmandu",
		Origin:   &origin,
		RadiusKm: 20,
	})
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(near.ID, got[0].Responder.ID)
	s.Require().NotNil(got[0].DistanceKm)
	s.Equal(unplaced.ID, got[1].Responder.ID)
	s.Nil(got[1].DistanceKm)
}

func (s *LocatorSuite) TestLocateLimit() {
	for i := 0; i < 15; i++ {
		s.seed("bulk", nil)
	}

	got, err := s.locator.Locate(s.ctx, LocateRequest{District: "Kathmandu"})
	s.Require().NoError(err)
	s.Len(got, DefaultLocateLimit)

	got, err = s.locator.Locate(s.ctx, LocateRequest{District: "Kathmandu", Limit: 4})
	s.Require().NoError(err)
	s.Len(got, 4)
}

func (s *LocatorSuite) TestRate() {
	r := s.seed("rated", func(r *models.Responder) {
		r.Rating = 4.0
		r.RatingCount = 3
	})

	s.Run("out of range rejected", func() {
		_, err := s.locator.Rate(s.ctx, r.ID, 0.5)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

		_, err = s.locator.Rate(s.ctx, r.ID, 5.5)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("running mean", func() {
		updated, err := s.locator.Rate(s.ctx, r.ID, 5)
		s.Require().NoError(err)
		// (4.0*3 + 5) / 4
		s.InDelta(4.25, updated.Rating, 1e-9)
		s.Equal(4, updated.RatingCount)
	})

	s.Run("unknown responder", func() {
		_, err := s.locator.Rate(s.ctx, id.NewResponderID(), 4)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
