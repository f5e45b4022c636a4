// Package fitness holds what the fitness domain packages share: the error
// taxonomy and the request helpers used by their HTTP handlers.
package fitness

import (
	"errors"
	"fmt"
)

// ErrConflict is returned by plain creates hitting a natural key that already exists.
var ErrConflict = errors.New("already exists")

// ValidationError reports caller input that cannot be processed. Handlers answer it with 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
