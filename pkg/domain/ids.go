// Package domain holds shared value types: typed identifiers and the
// enumerations that classify blood requests and responders.
package domain

import (
	"github.com/google/uuid"

	dErrors "lifeline/pkg/domain-errors"
)

// Typed IDs prevent cross-entity assignment at compile time. Construct via
// the Parse helpers at trust boundaries; direct casting bypasses validation.
type (
	DonorID     uuid.UUID
	DonationID  uuid.UUID
	ResponderID uuid.UUID
	RequestID   uuid.UUID
)

func (id DonorID) String() string     { return uuid.UUID(id).String() }
func (id DonationID) String() string  { return uuid.UUID(id).String() }
func (id ResponderID) String() string { return uuid.UUID(id).String() }
func (id RequestID) String() string   { return uuid.UUID(id).String() }

func (id DonorID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DonationID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ResponderID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RequestID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// NewDonorID generates a fresh donor identifier.
func NewDonorID() DonorID { return DonorID(uuid.New()) }

// NewDonationID generates a fresh donation identifier.
func NewDonationID() DonationID { return DonationID(uuid.New()) }

// NewResponderID generates a fresh responder identifier.
func NewResponderID() ResponderID { return ResponderID(uuid.New()) }

// NewRequestID generates a fresh blood-request identifier.
func NewRequestID() RequestID { return RequestID(uuid.New()) }

func parseUUID(s, entity string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id cannot be empty", entity)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id is not a valid UUID", entity)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id cannot be the nil UUID", entity)
	}
	return u, nil
}

// ParseDonorID constructs a DonorID from external input.
func ParseDonorID(s string) (DonorID, error) {
	u, err := parseUUID(s, "donor")
	return DonorID(u), err
}

// ParseDonationID constructs a DonationID from external input.
func ParseDonationID(s string) (DonationID, error) {
	u, err := parseUUID(s, "donation")
	return DonationID(u), err
}

// ParseResponderID constructs a ResponderID from external input.
func ParseResponderID(s string) (ResponderID, error) {
	u, err := parseUUID(s, "responder")
	return ResponderID(u), err
}

// ParseRequestID constructs a RequestID from external input.
func ParseRequestID(s string) (RequestID, error) {
	u, err := parseUUID(s, "request")
	return RequestID(u), err
}
