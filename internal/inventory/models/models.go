// Package models holds the inventory snapshot and blood request types.
package models

import (
	"time"

	id "lifeline/pkg/domain"
	dErrors "lifeline/pkg/domain-errors"
)

// SupplyStatus classifies how a blood group's estimated supply covers demand.
type SupplyStatus string

const (
	StatusCritical SupplyStatus = "CRITICAL"
	StatusLow      SupplyStatus = "LOW"
	StatusAdequate SupplyStatus = "ADEQUATE"
)

// Snapshot is a point-in-time supply estimate for one blood group.
// Derived data: recomputed from donors and open requests, cached with a TTL,
// never the source of truth.
type Snapshot struct {
	BloodGroup      id.BloodGroup `json:"blood_group"`
	District        string        `json:"district,omitempty"`
	AvailableDonors int           `json:"available_donors"`
	SupplyUnits     int           `json:"supply_units"`
	UnitsNeeded     int           `json:"units_needed"`
	Deficit         int           `json:"deficit"`
	Status          SupplyStatus  `json:"status"`
	ComputedAt      time.Time     `json:"computed_at"`
}

// RequestStatus is the lifecycle state of a blood request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestFulfilled RequestStatus = "FULFILLED"
	RequestCancelled RequestStatus = "CANCELLED"
)

// BloodRequest is a hospital's demand for units of a blood group.
// Open requests (pending or approved, deadline not passed) drive the
// estimator's demand side.
type BloodRequest struct {
	ID            id.RequestID   `json:"id"`
	BloodGroup    id.BloodGroup  `json:"blood_group"`
	District      string         `json:"district"`
	UnitsRequired int            `json:"units_required"`
	Status        RequestStatus  `json:"status"`
	Urgency       id.UrgencyTier `json:"urgency"`
	RequiredBy    time.Time      `json:"required_by"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Open reports whether the request still contributes to demand as of now.
func (r *BloodRequest) Open(now time.Time) bool {
	if r.Status != RequestPending && r.Status != RequestApproved {
		return false
	}
	return r.RequiredBy.After(now)
}

// Validate checks the caller-supplied fields of a new request.
func (r *BloodRequest) Validate() error {
	if r.BloodGroup == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "blood group is required")
	}
	if r.UnitsRequired <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "units required must be positive")
	}
	if r.RequiredBy.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "required-by deadline is required")
	}
	return nil
}
