package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Unavailable reasons reported per entry.
const (
	ReasonTimeout     = "timeout"
	ReasonUnavailable = "upstream_unavailable"
	ReasonNotFound    = "not_found"
	ReasonFetchFailed = "fetch_failed"
)
