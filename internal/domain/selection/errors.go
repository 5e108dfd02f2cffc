package selection

import "errors"

// Sentinel error kinds for selector resolution.
var (
	ErrUnknownWeek = errors.New("unknown week selection")
)
