package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrMalformedPayload      = errors.New("malformed upstream payload")
	// ErrConflict marks a lost insert race; callers absorb it.
	ErrConflict = errors.New("concurrency conflict")
)
