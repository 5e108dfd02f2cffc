package normalize

import "errors"

// Sentinel error kinds for normalisation.
var (
	ErrMissingColumn = errors.New("raw table missing required column")
)
