package model

import "errors"

// Sentinel error kinds for domain vocabulary parsing.
var (
	ErrUnknownPosition       = errors.New("unknown position")
	ErrUnsupportedComparator = errors.New("unsupported comparator")
	ErrInvalidValue          = errors.New("invalid filter value")
)
