//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"lifeline/internal/responder/models"
	"lifeline/internal/responder/store/postgres"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "responders"))
}

func (s *PostgresStoreSuite) insertResponder(mutate func(*models.Responder)) *models.Responder {
	responder := &models.Responder{
		ID:         id.NewResponderID(),
		Name:       "Valley Ambulance",
		District:   "Kathmandu",
		Capability: id.CapabilityBasic,
		Active:     true,
		Verified:   true,
	}
	if mutate != nil {
		mutate(responder)
	}

	_, err := s.postgres.DB.ExecContext(context.Background(),
		`INSERT INTO responders (id, name, district, capability, is_24_hours, avg_response_min, rating, rating_count, active, verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(responder.ID), responder.Name, responder.District,
		string(responder.Capability), responder.Is24Hours,
		responder.AvgResponseMinutes, responder.Rating, responder.RatingCount,
		responder.Active, responder.Verified)
	s.Require().NoError(err)
	return responder
}

func (s *PostgresStoreSuite) TestGetAndFindActive() {
	ctx := context.Background()

	s.insertResponder(func(r *models.Responder) { r.Active = false })
	s.insertResponder(func(r *models.Responder) { r.District = "Pokhara" })
	ktm := s.insertResponder(nil)

	got, err := s.store.Get(ctx, ktm.ID)
	s.Require().NoError(err)
	s.Equal(ktm.Name, got.Name)

	_, err = s.store.Get(ctx, id.NewResponderID())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	active, err := s.store.FindActive(ctx, "KATHMANDU")
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal(ktm.ID, active[0].ID)

	all, err := s.store.FindActive(ctx, "")
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *PostgresStoreSuite) TestRateConcurrent() {
	ctx := context.Background()
	responder := s.insertResponder(nil)

	const raters = 20
	var wg sync.WaitGroup
	for i := 0; i < raters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Rate(ctx, responder.ID, 4)
			s.NoError(err)
		}()
	}
	wg.Wait()

	got, err := s.store.Get(ctx, responder.ID)
	s.Require().NoError(err)
	s.Equal(raters, got.RatingCount)
	s.InDelta(4.0, got.Rating, 1e-9)

	_, err = s.store.Rate(ctx, id.NewResponderID(), 4)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
