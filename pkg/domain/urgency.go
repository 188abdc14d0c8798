package domain

import dErrors "lifeline/pkg/domain-errors"

// UrgencyTier classifies the severity of a blood or ambulance request.
// It modulates the donor waiting-period window and responder capability
// requirements.
type UrgencyTier string

const (
	UrgencyLow      UrgencyTier = "LOW"
	UrgencyMedium   UrgencyTier = "MEDIUM"
	UrgencyHigh     UrgencyTier = "HIGH"
	UrgencyCritical UrgencyTier = "CRITICAL"
)

var validUrgencies = map[UrgencyTier]bool{
	UrgencyLow:      true,
	UrgencyMedium:   true,
	UrgencyHigh:     true,
	UrgencyCritical: true,
}

// ParseUrgencyTier constructs an UrgencyTier from external input.
// An empty value defaults to HIGH, matching the behavior callers expect for
// emergency endpoints.
func ParseUrgencyTier(s string) (UrgencyTier, error) {
	if s == "" {
		return UrgencyHigh, nil
	}
	u := UrgencyTier(s)
	if !validUrgencies[u] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported urgency tier %q", s)
	}
	return u, nil
}

// IsValid checks the tier against the supported set.
func (u UrgencyTier) IsValid() bool {
	return validUrgencies[u]
}
