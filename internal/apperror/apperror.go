// Package apperror defines the error taxonomy shared by every layer.
//
// Each public store operation either succeeds or fails with one of the four
// sentinel kinds below. Lower layers never swallow a fault; they wrap it with
// %w so callers can classify with errors.Is and decide on messaging.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a lookup that matched no row. It is a normal
	// condition, not a store fault.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks input rejected before any statement was issued.
	ErrValidation = errors.New("validation error")

	// ErrConflict marks a uniqueness or foreign-key violation.
	ErrConflict = errors.New("conflict")

	// ErrStore marks an underlying engine failure (disk, corruption,
	// schema mismatch). Always fatal to the calling operation.
	ErrStore = errors.New("store fault")
)

type AppError struct {
	Err     error  // sentinel kind
	Message string // human-readable description
	Field   string // optional: field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s: %s", resource, message),
	}
}

// Store wraps an engine-level error so callers see ErrStore through errors.Is
// while the original cause stays on the chain for logs.
func Store(op string, err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %v", ErrStore, op, err),
		Message: fmt.Sprintf("storage failure during %s", op),
	}
}
