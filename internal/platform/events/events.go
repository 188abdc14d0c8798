// Package events defines the outbound domain event contract. The core decides
// what to announce and about whom; delivery (push, SMS, email fan-out) is a
// downstream consumer's concern.
package events

import (
	"context"
	"time"
)

// Event types emitted by the core.
const (
	TypeDonationRecorded  = "donation_recorded"
	TypeBadgeAwarded      = "badge_awarded"
	TypeDonorEligible     = "donor_eligible_again"
	TypeEmergencyRequest  = "emergency_match_requested"
	TypeInventoryCritical = "inventory_critical"
)

// Event is a single domain occurrence published to the event stream.
type Event struct {
	Type       string            `json:"type"`
	Subject    string            `json:"subject"`
	OccurredAt time.Time         `json:"occurred_at"`
	RequestID  string            `json:"request_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Publisher emits domain events. Implementations must be safe for concurrent
// use; publishing failures are reported but never block the originating
// operation's result.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
	Close()
}
