package domain

import "errors"

var (
	// ErrNotFound is returned when a code is unknown or its link is inactive.
	ErrNotFound = errors.New("link not found")

	// ErrExpired is returned when an active link is past its expiry.
	ErrExpired = errors.New("link expired")

	// ErrCodeConflict is returned when a requested custom code is already taken.
	ErrCodeConflict = errors.New("code already in use")

	// ErrExhaustedRetries is returned when every generated code collided.
	ErrExhaustedRetries = errors.New("could not generate a unique code")
)

// ValidationError reports malformed user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
