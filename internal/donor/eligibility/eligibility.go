// Package eligibility decides whether a donor may currently give blood.
//
// It is the single source of truth for the temporal window constants: the
// emergency scorer and the inventory estimator derive their windows from here
// rather than redeclaring them.
package eligibility

import (
	"time"

	"lifeline/internal/donor/models"
	id "lifeline/pkg/domain"
)

const (
	// MinAge and MaxAge bound the eligible donor age range, inclusive.
	MinAge = 18
	MaxAge = 65

	// DefaultWindowDays is the minimum rest between donations.
	DefaultWindowDays = 90

	// CriticalWindowDays relaxes the rest window for CRITICAL requests.
	CriticalWindowDays = 60

	// FreshnessWindowDays is the shorter window the inventory estimator uses
	// when counting donors who could plausibly supply units soon. It is a
	// supply estimate, not an eligibility gate.
	FreshnessWindowDays = 30
)

// Reason identifies why a donor is ineligible.
type Reason string

const (
	ReasonNotADonor     Reason = "not_a_donor"
	ReasonUnavailable   Reason = "unavailable"
	ReasonAgeOutOfRange Reason = "age_out_of_range"
	ReasonTooSoon       Reason = "too_soon_since_last_donation"
)

// Result is the outcome of an eligibility evaluation. Ineligibility is an
// expected value, never an error.
type Result struct {
	Eligible         bool       `json:"eligible"`
	Reason           Reason     `json:"reason,omitempty"`
	NextEligibleDate *time.Time `json:"next_eligible_date,omitempty"`
}

// WindowDays returns the rest window in days for the given urgency tier.
func WindowDays(urgency id.UrgencyTier) int {
	if urgency == id.UrgencyCritical {
		return CriticalWindowDays
	}
	return DefaultWindowDays
}

// Window returns the rest window as a duration.
func Window(urgency id.UrgencyTier) time.Duration {
	return time.Duration(WindowDays(urgency)) * 24 * time.Hour
}

// Evaluate determines whether the donor may donate at the given instant.
// Deterministic: the clock is an argument, never read internally.
//
// The window boundary is inclusive of the window having elapsed: a donor whose
// last donation was exactly WindowDays ago is eligible.
func Evaluate(donor *models.DonorRecord, now time.Time, urgency id.UrgencyTier) Result {
	if !donor.IsDonor {
		return Result{Reason: ReasonNotADonor}
	}
	if !donor.IsAvailable {
		return Result{Reason: ReasonUnavailable}
	}
	if donor.Age < MinAge || donor.Age > MaxAge {
		return Result{Reason: ReasonAgeOutOfRange}
	}
	if donor.LastDonation != nil {
		nextEligible := donor.LastDonation.Add(Window(urgency))
		if now.Before(nextEligible) {
			return Result{Reason: ReasonTooSoon, NextEligibleDate: &nextEligible}
		}
	}
	return Result{Eligible: true}
}

// FreshForSupply reports whether the donor counts toward the inventory
// estimate: available, an active donor in range, and not having donated within
// the freshness window.
func FreshForSupply(donor *models.DonorRecord, now time.Time) bool {
	if !donor.IsDonor || !donor.IsAvailable {
		return false
	}
	if donor.Age < MinAge || donor.Age > MaxAge {
		return false
	}
	if donor.LastDonation == nil {
		return true
	}
	fresh := donor.LastDonation.Add(FreshnessWindowDays * 24 * time.Hour)
	return !now.Before(fresh)
}
