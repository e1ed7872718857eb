package assistant

import (
	"errors"
	"fmt"

	dErrors "rirekisho/pkg/domain-errors"
)

// Category normalizes model-provider failures so callers degrade uniformly
// instead of branching on SDK error types.
type Category string

const (
	// CategoryTimeout indicates the provider took too long to respond.
	CategoryTimeout Category = "timeout"

	// CategoryBadData indicates the provider returned malformed or
	// schema-violating output.
	CategoryBadData Category = "bad_data"

	// CategoryAuthentication indicates a missing or rejected API key.
	CategoryAuthentication Category = "authentication"

	// CategoryProviderOutage indicates the provider is unavailable.
	CategoryProviderOutage Category = "provider_outage"

	// CategoryRateLimited indicates too many requests.
	CategoryRateLimited Category = "rate_limited"

	// CategoryInternal indicates an unexpected local failure.
	CategoryInternal Category = "internal"
)

// Error wraps an assistant failure with its normalized category.
type Error struct {
	Category   Category
	Operation  string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("assistant %s [%s]: %s: %v", e.Operation, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("assistant %s [%s]: %s", e.Operation, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError builds a categorized assistant error. Timeouts, outages and rate
// limits are marked retryable.
func NewError(category Category, operation, message string, underlying error) *Error {
	retryable := category == CategoryTimeout ||
		category == CategoryProviderOutage ||
		category == CategoryRateLimited

	return &Error{
		Category:   category,
		Operation:  operation,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable reports whether the failure is worth retrying.
func IsRetryable(err error) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Retryable
	}
	return false
}

// GetCategory extracts the category from an error chain.
func GetCategory(err error) Category {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Category
	}
	return CategoryInternal
}

// toDomainError maps a categorized failure onto the coded error surface.
// A missing or rejected key is user-actionable and kept distinct from
// provider unavailability.
func toDomainError(err error) error {
	switch GetCategory(err) {
	case CategoryAuthentication:
		return dErrors.Wrap(dErrors.CodeCredentialRequired, "model API key missing or rejected", err)
	case CategoryInternal:
		return dErrors.Wrap(dErrors.CodeInternal, "assistant failed", err)
	default:
		return dErrors.Wrap(dErrors.CodeUnavailable, "analysis unavailable", err)
	}
}
