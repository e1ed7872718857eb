package domain

import dErrors "rirekisho/pkg/domain-errors"

// VisaTier is the visa category an application targets. It is selected once
// per application and drives both the required-field policy and the document
// layout choice.
//
// Usage: construct via ParseVisaTier at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type VisaTier string

// Supported visa tiers.
const (
	TierEngineer VisaTier = "ENGINEER"
	TierSSW      VisaTier = "SSW"
	TierTITP     VisaTier = "TITP"
)

// validVisaTiers is the single source of truth for valid tiers.
var validVisaTiers = map[VisaTier]bool{
	TierEngineer: true,
	TierSSW:      true,
	TierTITP:     true,
}

// ParseVisaTier constructs a VisaTier from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported; no
// other errors are expected.
func ParseVisaTier(s string) (VisaTier, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "tier cannot be empty")
	}
	t := VisaTier(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid tier")
	}
	return t, nil
}

// IsValid checks if the tier is one of the supported enum values.
func (t VisaTier) IsValid() bool {
	return validVisaTiers[t]
}

// String returns the string representation of the tier.
func (t VisaTier) String() string {
	return string(t)
}
