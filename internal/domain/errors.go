package domain

import "errors"

var (
	// ErrNotFound is returned when a row does not exist (or is not visible to the caller).
	ErrNotFound = errors.New("not found")
	// ErrValidation wraps input that fails a business rule.
	ErrValidation = errors.New("validation error")
	// ErrConflict is returned when a unique key already exists.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized covers bad credentials and invalid or revoked sessions.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstream marks a failure answered by the hotel provider.
	ErrUpstream = errors.New("upstream error")
)
