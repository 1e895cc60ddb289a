package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrNotImplemented is returned by features that are disabled in this deployment.
	ErrNotImplemented = errors.New("not implemented")
)

// ValidationError carries a user-facing message about rejected form input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError returns a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
