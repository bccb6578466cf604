package service

import (
	"errors"
	"fmt"
)

// ErrTaskNotFound is returned when an id does not resolve to a task.
var ErrTaskNotFound = errors.New("task not found")

// ValidationError rejects caller input. Message is meant for end users.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
