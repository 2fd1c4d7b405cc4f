package model

import "errors"

// ErrNotFound is returned by stores when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports user-correctable input. The conversation engine
// answers it with a re-prompt and leaves both session and store untouched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a ValidationError with the given reason.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// PreconditionError reports that an operation was rejected before any flow was
// entered or any state mutated: wrong role, not registered, unknown task.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// NewPreconditionError creates a PreconditionError with the given reason.
func NewPreconditionError(reason string) *PreconditionError {
	return &PreconditionError{Reason: reason}
}
