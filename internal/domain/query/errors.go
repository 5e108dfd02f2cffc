package query

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for query evaluation.
var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrUnknownMetric = errors.New("unknown metric")
	ErrEvaluation    = errors.New("query evaluation failed")
)

// EvalError reports the expression that made a query fail.
type EvalError struct {
	Expr string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("query: %s: %v", e.Expr, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }
