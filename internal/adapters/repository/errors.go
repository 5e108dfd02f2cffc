package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound = errors.New("table not found")
	ErrLoad     = errors.New("table load failed")
)
