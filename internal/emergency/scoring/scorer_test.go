package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lifeline/internal/donor/models"
	id "lifeline/pkg/domain"
)

var now = time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)

func donor(mutate func(*models.DonorRecord)) *models.DonorRecord {
	d := &models.DonorRecord{
		ID:          id.NewDonorID(),
		BloodGroup:  id.ONegative,
		Age:         30,
		IsDonor:     true,
		IsAvailable: true,
	}
	if mutate != nil {
		mutate(d)
	}
	return d
}

func daysAgo(days int) *time.Time {
	t := now.AddDate(0, 0, -days)
	return &t
}

func TestScore(t *testing.T) {
	t.Run("never-donated donor scores the base", func(t *testing.T) {
		assert.Equal(t, 100, Score(donor(nil), id.UrgencyHigh, now))
	})

	t.Run("inside the window costs 50", func(t *testing.T) {
		d := donor(func(d *models.DonorRecord) { d.LastDonation = daysAgo(30) })
		assert.Equal(t, 50, Score(d, id.UrgencyHigh, now))
	})

	t.Run("just past the window costs 20", func(t *testing.T) {
		d := donor(func(d *models.DonorRecord) { d.LastDonation = daysAgo(100) })
		assert.Equal(t, 80, Score(d, id.UrgencyHigh, now))
	})

	t.Run("well past the window costs nothing", func(t *testing.T) {
		d := donor(func(d *models.DonorRecord) { d.LastDonation = daysAgo(120) })
		assert.Equal(t, 100, Score(d, id.UrgencyHigh, now))
	})

	t.Run("critical urgency moves the buckets to the 60 day window", func(t *testing.T) {
		d := donor(func(d *models.DonorRecord) { d.LastDonation = daysAgo(70) })
		// 70 days: inside the 90-day window, past the 60-day one.
		assert.Equal(t, 50, Score(d, id.UrgencyHigh, now))
		assert.Equal(t, 80, Score(d, id.UrgencyCritical, now))
	})

	t.Run("experience bonuses stack at 10 and 25 donations", func(t *testing.T) {
		d := donor(func(d *models.DonorRecord) { d.TotalDonations = 9 })
		assert.Equal(t, 100, Score(d, id.UrgencyHigh, now))

		d.TotalDonations = 10
		assert.Equal(t, 110, Score(d, id.UrgencyHigh, now))

		d.TotalDonations = 25
		assert.Equal(t, 120, Score(d, id.UrgencyHigh, now))
	})

	t.Run("life saver badge adds 15 after the penalty", func(t *testing.T) {
		d := donor(func(d *models.DonorRecord) {
			d.TotalDonations = 26
			d.Badges = []string{"Life Saver"}
		})
		assert.Equal(t, 135, Score(d, id.UrgencyCritical, now))

		d.LastDonation = daysAgo(50)
		// 50 < 60 day critical window: 100 - 50 + 20 + 15.
		assert.Equal(t, 85, Score(d, id.UrgencyCritical, now))
	})

	t.Run("monotonically non-decreasing in cumulative donations", func(t *testing.T) {
		prev := -1
		for total := 0; total <= 120; total++ {
			d := donor(func(d *models.DonorRecord) {
				d.TotalDonations = total
				d.LastDonation = daysAgo(30)
			})
			score := Score(d, id.UrgencyHigh, now)
			assert.GreaterOrEqual(t, score, prev, "total %d", total)
			assert.GreaterOrEqual(t, score, 0)
			prev = score
		}
	})
}

func TestEstimateResponseMinutes(t *testing.T) {
	t.Run("base estimate by urgency", func(t *testing.T) {
		assert.Equal(t, 30, EstimateResponseMinutes(donor(nil), id.UrgencyHigh))
		assert.Equal(t, 15, EstimateResponseMinutes(donor(nil), id.UrgencyCritical))
	})

	t.Run("experience and badge cut the estimate", func(t *testing.T) {
		d := donor(func(d *models.DonorRecord) {
			d.TotalDonations = 12
			d.Badges = []string{"Life Saver"}
		})
		assert.Equal(t, 15, EstimateResponseMinutes(d, id.UrgencyHigh))
	})

	t.Run("floored at five minutes", func(t *testing.T) {
		d := donor(func(d *models.DonorRecord) {
			d.TotalDonations = 30
			d.Badges = []string{"Life Saver"}
		})
		assert.Equal(t, 5, EstimateResponseMinutes(d, id.UrgencyCritical))
	})
}
