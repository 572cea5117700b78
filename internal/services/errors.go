package services

import "errors"

// Shared error taxonomy. Services wrap these with context via fmt.Errorf and
// %w; handlers map them to HTTP statuses with errors.Is.
var (
	// ErrValidation: required input missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden: credential valid but scope, ownership, or role insufficient.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound: id does not resolve under the caller's scope. Wrong id,
	// wrong owner, and trashed-when-live-required all look the same on
	// purpose, so callers cannot probe another instructor's data.
	ErrNotFound = errors.New("not found")
	// ErrConflict: optimistic-lock version mismatch on a concurrent edit.
	ErrConflict = errors.New("conflict")
)
