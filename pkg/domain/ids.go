package domain

import (
	"github.com/google/uuid"

	dErrors "rirekisho/pkg/domain-errors"
)

// ApplicationID identifies one job application (one applicant record).
// Invariant: a non-zero ApplicationID is always a valid UUID.
//
// Usage: construct via NewApplicationID or ParseApplicationID at trust
// boundaries; direct casting bypasses validation.
type ApplicationID struct {
	uuid.UUID
}

// NewApplicationID generates a fresh application ID.
func NewApplicationID() ApplicationID {
	return ApplicationID{uuid.New()}
}

// ParseApplicationID constructs an ApplicationID from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or not a UUID.
func ParseApplicationID(s string) (ApplicationID, error) {
	if s == "" {
		return ApplicationID{}, dErrors.New(dErrors.CodeInvalidInput, "application id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return ApplicationID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid application id")
	}
	return ApplicationID{u}, nil
}

// IsZero reports whether the ID is unset.
func (id ApplicationID) IsZero() bool {
	return id.UUID == uuid.UUID{}
}

// String returns the canonical UUID form.
func (id ApplicationID) String() string {
	return id.UUID.String()
}
