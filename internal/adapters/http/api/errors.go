package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrUnavailable = errors.New("service unavailable")
	ErrInternal    = errors.New("internal error")
)

// WrapKind reports that op failed with kind because of err.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
