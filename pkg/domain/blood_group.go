package domain

import dErrors "lifeline/pkg/domain-errors"

// BloodGroup is one of the eight ABO/Rh combinations.
// Invariant: only the listed values are valid; construct via ParseBloodGroup
// at trust boundaries.
type BloodGroup string

const (
	APositive  BloodGroup = "A_POSITIVE"
	ANegative  BloodGroup = "A_NEGATIVE"
	BPositive  BloodGroup = "B_POSITIVE"
	BNegative  BloodGroup = "B_NEGATIVE"
	ABPositive BloodGroup = "AB_POSITIVE"
	ABNegative BloodGroup = "AB_NEGATIVE"
	OPositive  BloodGroup = "O_POSITIVE"
	ONegative  BloodGroup = "O_NEGATIVE"
)

// BloodGroups lists all valid groups in a stable order, used when the
// inventory estimator fans out across every group.
var BloodGroups = []BloodGroup{
	APositive, ANegative,
	BPositive, BNegative,
	ABPositive, ABNegative,
	OPositive, ONegative,
}

var validBloodGroups = map[BloodGroup]bool{
	APositive: true, ANegative: true,
	BPositive: true, BNegative: true,
	ABPositive: true, ABNegative: true,
	OPositive: true, ONegative: true,
}

// ParseBloodGroup constructs a BloodGroup from external input.
// Errors: CodeInvalidInput when the value is empty or unsupported.
func ParseBloodGroup(s string) (BloodGroup, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "blood group cannot be empty")
	}
	g := BloodGroup(s)
	if !g.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported blood group %q", s)
	}
	return g, nil
}

// IsValid checks the group against the supported set.
func (g BloodGroup) IsValid() bool {
	return validBloodGroups[g]
}
