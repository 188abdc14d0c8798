// Package scoring ranks emergency donor candidates by likely speed and
// reliability of response.
package scoring

import (
	"time"

	"lifeline/internal/donor/badges"
	"lifeline/internal/donor/eligibility"
	"lifeline/internal/donor/models"
	id "lifeline/pkg/domain"
)

// Score constants. The ordering matters: the recency penalty applies to the
// base before any bonus is added, and bonuses are additive, not
// multiplicative. The values are fixed product behavior, not tunables.
const (
	baseScore = 100

	insideWindowPenalty = 50
	nearWindowPenalty   = 20
	nearWindowSlackDays = 30

	experiencedThreshold = 10
	experiencedBonus     = 10
	veteranThreshold     = 25
	veteranBonus         = 10

	lifeSaverBonus = 15
)

// Score computes the response score for a donor in an emergency context,
// clamped to >= 0. The waiting-period window is derived from the urgency tier
// exactly as the eligibility evaluator derives it.
//
// Ineligible donors score without error; the matcher filters them before
// ranking, but diagnostic callers may score anyone.
func Score(donor *models.DonorRecord, urgency id.UrgencyTier, now time.Time) int {
	score := baseScore

	if donor.LastDonation != nil {
		daysSince := donor.DaysSinceLastDonation(now)
		window := eligibility.WindowDays(urgency)
		// Only one bucket applies.
		if daysSince < window {
			score -= insideWindowPenalty
		} else if daysSince < window+nearWindowSlackDays {
			score -= nearWindowPenalty
		}
	}

	if donor.TotalDonations >= experiencedThreshold {
		score += experiencedBonus
	}
	if donor.TotalDonations >= veteranThreshold {
		score += veteranBonus
	}
	if donor.HasBadge(badges.LifeSaver) {
		score += lifeSaverBonus
	}

	if score < 0 {
		score = 0
	}
	return score
}

// Response time estimate constants, in minutes.
const (
	criticalBaseMinutes = 15
	defaultBaseMinutes  = 30
	experiencedCutMin   = 5
	lifeSaverCutMin     = 10
	minimumMinutes      = 5
)

// EstimateResponseMinutes predicts how quickly a donor is likely to respond.
// Experienced donors and proven life savers answer faster; the floor keeps
// the estimate honest.
func EstimateResponseMinutes(donor *models.DonorRecord, urgency id.UrgencyTier) int {
	minutes := defaultBaseMinutes
	if urgency == id.UrgencyCritical {
		minutes = criticalBaseMinutes
	}

	if donor.TotalDonations >= experiencedThreshold {
		minutes -= experiencedCutMin
	}
	if donor.HasBadge(badges.LifeSaver) {
		minutes -= lifeSaverCutMin
	}

	if minutes < minimumMinutes {
		minutes = minimumMinutes
	}
	return minutes
}
