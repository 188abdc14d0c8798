package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeline/internal/responder/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

func seed(s *Store, mutate func(*models.Responder)) *models.Responder {
	r := &models.Responder{
		ID:         id.NewResponderID(),
		Name:       "Valley Ambulance",
		District:   "Kathmandu",
		Capability: id.CapabilityBasic,
		Active:     true,
		Verified:   true,
	}
	if mutate != nil {
		mutate(r)
	}
	s.Put(r)
	return r
}

func TestGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	r := seed(s, nil)

	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Name, got.Name)

	// Returned copy must not alias the stored record.
	got.Name = "mutated"
	again, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Name, again.Name)

	_, err = s.Get(ctx, id.NewResponderID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestFindActive(t *testing.T) {
	s := New()
	ctx := context.Background()

	seed(s, func(r *models.Responder) { r.Active = false })
	seed(s, func(r *models.Responder) { r.District = "Pokhara" })
	ktm := seed(s, nil)

	got, err := s.FindActive(ctx, "kathmandu")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ktm.ID, got[0].ID)

	all, err := s.FindActive(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRateConcurrent(t *testing.T) {
	s := New()
	ctx := context.Background()

	r := seed(s, nil)

	const raters = 16
	var wg sync.WaitGroup
	for i := 0; i < raters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Rate(ctx, r.ID, 4)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, raters, got.RatingCount)
	assert.InDelta(t, 4.0, got.Rating, 1e-9)
}
