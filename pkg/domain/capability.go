package domain

import dErrors "lifeline/pkg/domain-errors"

// CapabilityTier classifies a responder's medical equipment level.
type CapabilityTier string

const (
	CapabilityBasic    CapabilityTier = "BASIC"
	CapabilityAdvanced CapabilityTier = "ADVANCED"
	CapabilityICU      CapabilityTier = "ICU"
	CapabilityNeonatal CapabilityTier = "NEONATAL"
)

var validCapabilities = map[CapabilityTier]bool{
	CapabilityBasic:    true,
	CapabilityAdvanced: true,
	CapabilityICU:      true,
	CapabilityNeonatal: true,
}

// advancedOrBetter is the compatible set for requests that need more than a
// basic transport vehicle.
var advancedOrBetter = map[CapabilityTier]bool{
	CapabilityAdvanced: true,
	CapabilityICU:      true,
	CapabilityNeonatal: true,
}

// ParseCapabilityTier constructs a CapabilityTier from external input.
func ParseCapabilityTier(s string) (CapabilityTier, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "capability tier cannot be empty")
	}
	c := CapabilityTier(s)
	if !validCapabilities[c] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported capability tier %q", s)
	}
	return c, nil
}

// IsValid checks the tier against the supported set.
func (c CapabilityTier) IsValid() bool {
	return validCapabilities[c]
}

// Satisfies reports whether a responder with tier c can serve a request that
// requires the given tier. Anything above basic is interchangeable within the
// advanced-or-better set; a basic requirement is satisfied by every tier.
func (c CapabilityTier) Satisfies(required CapabilityTier) bool {
	if required == "" || required == CapabilityBasic {
		return true
	}
	return advancedOrBetter[c]
}
