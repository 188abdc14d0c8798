// Package models holds the donor aggregate and its donation history entries.
package models

import (
	"time"

	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
	"lifeline/pkg/geo"
)

// DonorRecord is a read snapshot of a registered donor.
//
// Invariants:
//   - Age within [18,65] is required for eligibility, not existence; donors
//     outside the range remain in the system and are filtered at query time
//   - LastDonation, when present, is never after "now"
//   - TotalDonations counts verified donations and only moves through
//     RecordDonationAtomic at the store boundary
type DonorRecord struct {
	ID             id.DonorID      `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	BloodGroup     id.BloodGroup   `json:"blood_group"`
	Age            int             `json:"age"`
	IsDonor        bool            `json:"is_donor"`
	IsAvailable    bool            `json:"is_available"`
	LastDonation   *time.Time      `json:"last_donation,omitempty"`
	TotalDonations int             `json:"total_donations"`
	Badges         []string        `json:"badges"`
	Coordinate     *geo.Coordinate `json:"coordinate,omitempty"`
	City           string          `json:"city"`
	District       string          `json:"district"`
	CreatedAt      time.Time       `json:"created_at"`
}

// HasBadge reports whether the donor already holds the named badge.
func (d *DonorRecord) HasBadge(name string) bool {
	for _, b := range d.Badges {
		if b == name {
			return true
		}
	}
	return false
}

// DaysSinceLastDonation returns whole days elapsed since the last donation,
// or -1 when the donor has never donated.
func (d *DonorRecord) DaysSinceLastDonation(now time.Time) int {
	if d.LastDonation == nil {
		return -1
	}
	return int(now.Sub(*d.LastDonation).Hours() / 24)
}

// DonationType classifies what was donated.
type DonationType string

const (
	DonationWholeBlood DonationType = "WHOLE_BLOOD"
	DonationPlatelets  DonationType = "PLATELETS"
	DonationPlasma     DonationType = "PLASMA"
)

var validDonationTypes = map[DonationType]bool{
	DonationWholeBlood: true,
	DonationPlatelets:  true,
	DonationPlasma:     true,
}

// ParseDonationType constructs a DonationType from external input.
// An empty value defaults to whole blood.
func ParseDonationType(s string) (DonationType, error) {
	if s == "" {
		return DonationWholeBlood, nil
	}
	t := DonationType(s)
	if !validDonationTypes[t] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported donation type %q", s)
	}
	return t, nil
}

// DonationEvent is one recorded donation.
//
// Lifecycle: created unverified when a donation is recorded; an external
// authority later flips Verified. Nothing else mutates after creation.
type DonationEvent struct {
	ID           id.DonationID `json:"id"`
	DonorID      id.DonorID    `json:"donor_id"`
	DonatedAt    time.Time     `json:"donated_at"`
	Type         DonationType  `json:"type"`
	Location     string        `json:"location"`
	Organization string        `json:"organization,omitempty"`
	Verified     bool          `json:"verified"`
}

// DonorStats is an aggregate snapshot for dashboards.
type DonorStats struct {
	TotalDonors        int `json:"total_donors"`
	ActiveDonors       int `json:"active_donors"`
	NewDonorsThisMonth int `json:"new_donors_this_month"`
	DonationsThisMonth int `json:"donations_this_month"`
	// LivesSaved assumes one donation can save up to three lives.
	LivesSaved int `json:"lives_saved"`
}
