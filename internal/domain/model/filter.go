package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Comparator is a relational operator usable in a column filter.
type Comparator string

// Supported comparators.
const (
	Greater   Comparator = ">"
	Less      Comparator = "<"
	GreaterEq Comparator = ">="
	LessEq    Comparator = "<="
	Equal     Comparator = "=="
	NotEqual  Comparator = "!="
)

var comparators = []Comparator{Greater, Less, GreaterEq, LessEq, Equal, NotEqual}

// ParseComparator accepts only the exact tokens above.
func ParseComparator(s string) (Comparator, error) {
	c := Comparator(strings.TrimSpace(s))
	if c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedComparator, s)
}

// Valid reports whether c is a supported comparator.
func (c Comparator) Valid() bool {
	for _, known := range comparators {
		if c == known {
			return true
		}
	}
	return false
}

// UnmarshalJSON rejects unsupported tokens while decoding.
func (c *Comparator) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedComparator, string(b))
	}
	parsed, err := ParseComparator(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Filter is one structured predicate: Column Comparator Value.
type Filter struct {
	Column     string     `json:"column"`
	Comparator Comparator `json:"comparator"`
	Value      any        `json:"value"`
}

// Operand returns the filter value in the form the table evaluates:
// float64 for any numeric kind, string, or bool.
func (f Filter) Operand() (any, error) {
	switch v := f.Value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidValue, v.String())
		}
		return n, nil
	case string:
		return v, nil
	case bool:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidValue, f.Value)
	}
}

// String renders the filter as "(column op value)" for messages and logs.
func (f Filter) String() string {
	var val string
	switch v := f.Value.(type) {
	case string:
		val = strconv.Quote(v)
	case nil:
		val = "<nil>"
	default:
		val = fmt.Sprint(v)
	}
	return fmt.Sprintf("(%s %s %s)", f.Column, f.Comparator, val)
}
