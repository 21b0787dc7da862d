package media

import (
	"errors"
	"fmt"
)

var (
	ErrImageNotFound = errors.New("image not found")
	ErrVideoNotFound = errors.New("video not found")

	// ErrNotAuthorized is returned when the caller does not own the item
	ErrNotAuthorized = errors.New("user not authorized to modify this item")

	ErrAuthenticationRequired = errors.New("authentication required")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsNotFound checks for either gallery's not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrImageNotFound) || errors.Is(err, ErrVideoNotFound)
}
