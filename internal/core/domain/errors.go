package domain

import (
	"errors"
	"fmt"
)

// Closed set of domain errors. Handlers and the central HTTP error handler
// branch on these with errors.Is instead of matching message strings.
var (
	ErrEmailTaken           = errors.New("email is already registered")
	ErrInvalidCredentials   = errors.New("incorrect email or password")
	ErrNotVerified          = errors.New("please verify your email to continue")
	ErrUserNotFound         = errors.New("user not found")
	ErrAlreadyVerified      = errors.New("user is already verified")
	ErrVerificationExpired  = errors.New("token expired, please request a new verification email")
	ErrTokenInvalid         = errors.New("invalid token")
	ErrInvalidResetToken    = errors.New("invalid or expired token")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrForbidden            = errors.New("action not authorized")
	ErrTooManyRequests      = errors.New("too many requests, try again later")
	ErrEmailDelivery        = errors.New("failed to send email")
)

// ValidationError reports a field-level invariant violation. It carries a
// user-safe message and matches ErrValidation for errors.Is branching.
type ValidationError struct {
	Field  string
	Reason string
}

var ErrValidation = errors.New("validation failed")

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
