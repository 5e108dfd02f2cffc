package table

import "errors"

// Sentinel error kinds for table operations.
var (
	ErrFrame    = errors.New("table frame error")
	ErrNoColumn = errors.New("no such column")
)
