package model

import (
	"fmt"
	"strings"
)

// Position is the derived categorical player position.
// The zero value means the position is undefined.
type Position string

// Known positions.
const (
	Quarterback  Position = "QB"
	RunningBack  Position = "RB"
	WideReceiver Position = "WR"
	TightEnd     Position = "TE"
)

// Positions lists the selectable positions in display order.
var Positions = []Position{Quarterback, RunningBack, WideReceiver, TightEnd}

// Indicator pairs a position with the boolean column that flags it.
type Indicator struct {
	Position Position
	Column   string
}

// PositionPriority is evaluated in order and the first set indicator wins.
// Rows flagged for more than one position therefore resolve to the earliest
// entry; rows with no flag stay undefined.
var PositionPriority = []Indicator{
	{Position: Quarterback, Column: ColumnQuarterback},
	{Position: RunningBack, Column: ColumnRunningBack},
	{Position: TightEnd, Column: ColumnTightEnd},
	{Position: WideReceiver, Column: ColumnWideReceiver},
}

// ParsePosition converts a label such as "qb" or "WR" into a Position.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Positions {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPosition, s)
}

// Defined reports whether p is one of the known positions.
func (p Position) Defined() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

func (p Position) String() string { return string(p) }
