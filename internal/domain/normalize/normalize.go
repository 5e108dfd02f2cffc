// Package normalize derives the display fields of a raw prediction table.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/table"
)

const (
	// salaryScale converts the stored fractional unit into whole units.
	salaryScale = 100
	// historicalSuffixLen is the season/week suffix on historical identifiers.
	historicalSuffixLen = 3
	// naRecord is how a missing string value is written into a series.
	naRecord = "NaN"
)

// requiredColumns must be present in every raw table.
var requiredColumns = []string{
	model.ColumnQuarterback,
	model.ColumnRunningBack,
	model.ColumnTightEnd,
	model.ColumnWideReceiver,
	model.ColumnPlayerID,
	model.ColumnSalary,
}

// Option applies a configuration option to a normalisation run.
type Option func(*options)

type options struct {
	backfillActual bool
}

// WithActualBackfill adds a zero-filled actual column when the raw table
// has none.
func WithActualBackfill() Option {
	return func(o *options) { o.backfillActual = true }
}

// Report counts data quality anomalies seen while deriving positions.
// These are never errors.
type Report struct {
	Rows               int
	UndefinedPositions int
	MultiplePositions  int
	BackfilledActual   bool
	AlreadyNormalized  bool
}

// Normalize returns a copy of raw with Position and Name derived and salary
// scaled by 100. Current tables keep player_id as the Name; historical
// tables drop its trailing three characters.
//
// A table that already carries Position and Name is treated as normalised:
// both are rederived from the raw fields and salary is left alone, so
// repeated runs give identical results.
func Normalize(raw table.Table, isCurrent bool, opts ...Option) (table.Table, Report, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	for _, col := range requiredColumns {
		if !raw.HasColumn(col) {
			return table.Table{}, Report{}, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	report := Report{
		Rows:              raw.Len(),
		AlreadyNormalized: raw.HasColumn(model.ColumnPosition) && raw.HasColumn(model.ColumnName),
	}

	positions, err := derivePositions(raw, &report)
	if err != nil {
		return table.Table{}, Report{}, err
	}
	names, err := deriveNames(raw, isCurrent)
	if err != nil {
		return table.Table{}, Report{}, err
	}

	cols := []series.Series{
		series.New(positions, series.String, model.ColumnPosition),
		series.New(names, series.String, model.ColumnName),
	}
	if !report.AlreadyNormalized {
		salary, err := scaleSalary(raw)
		if err != nil {
			return table.Table{}, Report{}, err
		}
		cols = append(cols, salary)
	}
	if o.backfillActual && !raw.HasColumn(model.ColumnActual) {
		cols = append(cols, series.New(make([]float64, raw.Len()), series.Float, model.ColumnActual))
		report.BackfilledActual = true
	}

	out := raw
	for _, col := range cols {
		if out, err = out.With(col); err != nil {
			return table.Table{}, Report{}, fmt.Errorf("derive %q: %w", col.Name, err)
		}
	}
	return out, report, nil
}

// derivePositions walks model.PositionPriority for each row.
func derivePositions(raw table.Table, report *Report) ([]string, error) {
	flags := make([][]string, len(model.PositionPriority))
	for i, ind := range model.PositionPriority {
		col, err := raw.Column(ind.Column)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ind.Column)
		}
		flags[i] = col.Records()
	}

	positions := make([]string, raw.Len())
	for row := range positions {
		positions[row] = naRecord
		set := 0
		for i, ind := range model.PositionPriority {
			if !indicatorSet(flags[i][row]) {
				continue
			}
			if set == 0 {
				positions[row] = ind.Position.String()
			}
			set++
		}
		switch {
		case set == 0:
			report.UndefinedPositions++
		case set > 1:
			report.MultiplePositions++
		}
	}
	return positions, nil
}

// indicatorSet reads a boolean flag rendered as text. Booleans and non-zero
// numbers are set; missing or unparsable cells are not.
func indicatorSet(v string) bool {
	v = strings.TrimSpace(v)
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return false
	}
	return f != 0
}

func deriveNames(raw table.Table, isCurrent bool) ([]string, error) {
	col, err := raw.Column(model.ColumnPlayerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, model.ColumnPlayerID)
	}
	ids := col.Records()
	names := make([]string, len(ids))
	for i, id := range ids {
		if isCurrent {
			names[i] = id
			continue
		}
		names[i] = stripSuffix(id)
	}
	return names, nil
}

// stripSuffix drops the trailing season/week characters. Identifiers no
// longer than the suffix become empty.
func stripSuffix(id string) string {
	r := []rune(id)
	if len(r) <= historicalSuffixLen {
		return ""
	}
	return string(r[:len(r)-historicalSuffixLen])
}

func scaleSalary(raw table.Table) (series.Series, error) {
	col, err := raw.Column(model.ColumnSalary)
	if err != nil {
		return series.Series{}, fmt.Errorf("%w: %q", ErrMissingColumn, model.ColumnSalary)
	}
	vals := col.Float()
	scaled := make([]interface{}, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			// nil keeps the cell missing
			continue
		}
		scaled[i] = v * salaryScale
	}
	return series.New(scaled, series.Float, model.ColumnSalary), nil
}
