package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeline/internal/donor/models"
	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

func newDonor(group id.BloodGroup, district string) *models.DonorRecord {
	return &models.DonorRecord{
		ID:          id.NewDonorID(),
		Name:        "Test Donor",
		BloodGroup:  group,
		Age:         30,
		IsDonor:     true,
		IsAvailable: true,
		District:    district,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	store := New()

	t.Run("missing donor returns not found", func(t *testing.T) {
		_, err := store.Get(ctx, id.NewDonorID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("returns a copy, not the stored record", func(t *testing.T) {
		d := newDonor(id.OPositive, "Kathmandu")
		store.Put(d)

		got, err := store.Get(ctx, d.ID)
		require.NoError(t, err)
		got.District = "Pokhara"

		again, err := store.Get(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, "Kathmandu", again.District)
	})
}

func TestFindCandidates(t *testing.T) {
	ctx := context.Background()
	store := New()

	store.Put(newDonor(id.OPositive, "Kathmandu"))
	store.Put(newDonor(id.OPositive, "Pokhara"))
	store.Put(newDonor(id.ANegative, "Kathmandu"))

	t.Run("filters by group and district", func(t *testing.T) {
		got, err := store.FindCandidates(ctx, id.OPositive, "Kathmandu")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Kathmandu", got[0].District)
	})

	t.Run("district match is case-insensitive exact", func(t *testing.T) {
		got, err := store.FindCandidates(ctx, id.OPositive, "kathmandu")
		require.NoError(t, err)
		assert.Len(t, got, 1)

		got, err = store.FindCandidates(ctx, id.OPositive, "Kath")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty filters mean any", func(t *testing.T) {
		got, err := store.FindCandidates(ctx, "", "")
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestRecordDonationAtomic(t *testing.T) {
	ctx := context.Background()
	store := New()
	d := newDonor(id.BPositive, "Lalitpur")
	store.Put(d)

	t.Run("increments total and sets last donation", func(t *testing.T) {
		now := time.Now().UTC()
		total, err := store.RecordDonationAtomic(ctx, d.ID, &models.DonationEvent{
			ID:        id.NewDonationID(),
			DonorID:   d.ID,
			DonatedAt: now,
			Type:      models.DonationWholeBlood,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		got, err := store.Get(ctx, d.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastDonation)
		assert.Equal(t, now, *got.LastDonation)
	})

	t.Run("unknown donor fails without writing", func(t *testing.T) {
		_, err := store.RecordDonationAtomic(ctx, id.NewDonorID(), &models.DonationEvent{
			ID: id.NewDonationID(),
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("concurrent donations for one donor never lose updates", func(t *testing.T) {
		donor := newDonor(id.ABPositive, "Bhaktapur")
		store.Put(donor)

		const writers = 16
		var wg sync.WaitGroup
		for range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.RecordDonationAtomic(ctx, donor.ID, &models.DonationEvent{
					ID:        id.NewDonationID(),
					DonorID:   donor.ID,
					DonatedAt: time.Now().UTC(),
					Type:      models.DonationWholeBlood,
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := store.Get(ctx, donor.ID)
		require.NoError(t, err)
		assert.Equal(t, writers, got.TotalDonations)
	})
}

func TestVerifyDonation(t *testing.T) {
	ctx := context.Background()
	store := New()
	d := newDonor(id.ONegative, "Kathmandu")
	store.Put(d)

	event := &models.DonationEvent{
		ID:        id.NewDonationID(),
		DonorID:   d.ID,
		DonatedAt: time.Now().UTC(),
		Type:      models.DonationPlasma,
	}
	_, err := store.RecordDonationAtomic(ctx, d.ID, event)
	require.NoError(t, err)

	require.NoError(t, store.VerifyDonation(ctx, event.ID))

	donations, err := store.ListDonations(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, donations, 1)
	assert.True(t, donations[0].Verified)

	assert.True(t, dErrors.HasCode(store.VerifyDonation(ctx, id.NewDonationID()), dErrors.CodeNotFound))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	store := New()
	now := time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC)

	fresh := newDonor(id.OPositive, "Kathmandu")
	fresh.CreatedAt = now.AddDate(0, 0, -5)
	store.Put(fresh)

	rested := newDonor(id.APositive, "Pokhara")
	last := now.AddDate(0, 0, -120)
	rested.LastDonation = &last
	rested.CreatedAt = now.AddDate(0, -3, 0)
	store.Put(rested)

	recent := newDonor(id.BNegative, "Kathmandu")
	recentLast := now.AddDate(0, 0, -10)
	recent.LastDonation = &recentLast
	recent.CreatedAt = now.AddDate(0, -2, 0)
	store.Put(recent)

	event := &models.DonationEvent{
		ID:        id.NewDonationID(),
		DonorID:   recent.ID,
		DonatedAt: recentLast,
		Type:      models.DonationWholeBlood,
	}
	_, err := store.RecordDonationAtomic(ctx, recent.ID, event)
	require.NoError(t, err)
	require.NoError(t, store.VerifyDonation(ctx, event.ID))

	stats, err := store.Stats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalDonors)
	assert.Equal(t, 2, stats.ActiveDonors) // fresh (never donated) + rested
	assert.Equal(t, 1, stats.NewDonorsThisMonth)
	assert.Equal(t, 1, stats.DonationsThisMonth)
	assert.Equal(t, 3, stats.LivesSaved)
}
