package domain

import (
	"errors"
	"fmt"
)

// Error categories surfaced to callers. Specific errors wrap one of these so
// transport layers can map them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

var (
	ErrAlreadyClaimed    = fmt.Errorf("%w: cafe is already claimed", ErrConflict)
	ErrDuplicateClaim    = fmt.Errorf("%w: a pending claim for this cafe already exists for the user", ErrConflict)
	ErrClaimInProgress   = fmt.Errorf("%w: another claim for this cafe is awaiting review", ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: claim has already been decided", ErrConflict)
)

// Validationf builds an error in the validation category.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf builds an error in the not-found category.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Forbiddenf builds an error in the authorization category.
func Forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}
