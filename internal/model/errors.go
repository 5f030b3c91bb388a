// internal/model/errors.go
package model

import "fmt"

// ValidationError rejects malformed input before any lookup happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// AuthorizationError covers unknown tenants, denied dataset access and
// quota refusals. The reason is meant to be shown to the caller.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "authorization denied: " + e.Reason
}

func Denied(format string, args ...any) error {
	return &AuthorizationError{Reason: fmt.Sprintf(format, args...)}
}

// InvariantViolation indicates a core bug (counter drift, malformed state).
// The offending write is rejected; the caller sees a generic internal error.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Detail
}

func Violated(format string, args ...any) error {
	return &InvariantViolation{Detail: fmt.Sprintf(format, args...)}
}
