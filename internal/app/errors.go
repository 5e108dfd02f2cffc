package service

import "errors"

// Sentinel error kinds returned by the Service.
var (
	// ErrNotStarted is returned by queries issued before Start.
	ErrNotStarted = errors.New("service not started")

	// ErrInvalidRequest wraps every error caused by the caller's selection:
	// unknown week, position, metric, column, comparator or value.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTooManyFilters is returned when a request exceeds the filter cap.
	ErrTooManyFilters = errors.New("too many filters")
)
