package cargo

import "errors"

// Error kinds per the core's error taxonomy. Every mutating operation
// fails with exactly one of these, never a partial mutation.
var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicate   = errors.New("duplicate")
	ErrValidation  = errors.New("validation")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
	ErrInvalidArgs = errors.New("invalid arguments")
)
