// Package table wraps an in-memory dataframe as an immutable prediction table.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// missingValues are read as NA regardless of the column type.
var missingValues = []string{"", "NA", "NaN", "nan", "<nil>"}

// Table is an ordered set of rows sharing one schema. Every operation returns
// a new Table; the underlying frame is never modified in place.
type Table struct {
	frame dataframe.DataFrame
}

// ReadCSV reads a table with a header row, detecting column types. Text
// columns holding only boolean spellings (True, false, T, 0, ...) become
// boolean columns. A header with no rows yields an empty table with that
// schema.
func ReadCSV(r io.Reader) (Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("%w: read csv: %w", ErrFrame, err)
	}
	if len(records) == 1 {
		cols := make([]series.Series, 0, len(records[0]))
		for _, name := range records[0] {
			cols = append(cols, series.New([]string{}, series.String, name))
		}
		return FromColumns(cols...)
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(missingValues),
	)
	if df.Err != nil {
		return FromFrame(df)
	}
	for _, name := range df.Names() {
		if b, ok := asBool(df.Col(name)); ok {
			df = df.Mutate(b)
		}
	}
	return FromFrame(df)
}

// asBool converts a text column whose present cells all parse as booleans.
func asBool(col series.Series) (series.Series, bool) {
	if col.Type() != series.String {
		return series.Series{}, false
	}
	vals := make([]interface{}, col.Len())
	present := 0
	for i := 0; i < col.Len(); i++ {
		el := col.Elem(i)
		if el.IsNA() {
			continue
		}
		v, err := strconv.ParseBool(el.String())
		if err != nil {
			return series.Series{}, false
		}
		vals[i] = v
		present++
	}
	if present == 0 {
		return series.Series{}, false
	}
	return series.New(vals, series.Bool, col.Name), true
}

// FromFrame adopts a dataframe, surfacing any error it carries.
func FromFrame(df dataframe.DataFrame) (Table, error) {
	if df.Err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrFrame, df.Err)
	}
	return Table{frame: df}, nil
}

// FromColumns builds a table from named series.
func FromColumns(cols ...series.Series) (Table, error) {
	return FromFrame(dataframe.New(cols...))
}

// Frame exposes the underlying dataframe for evaluation.
func (t Table) Frame() dataframe.DataFrame { return t.frame }

// Len returns the number of rows.
func (t Table) Len() int { return t.frame.Nrow() }

// Names returns the column names in schema order.
func (t Table) Names() []string { return t.frame.Names() }

// HasColumn reports whether the schema has a column called name.
func (t Table) HasColumn(name string) bool {
	for _, n := range t.frame.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Column returns a copy of the named column.
func (t Table) Column(name string) (series.Series, error) {
	if !t.HasColumn(name) {
		return series.Series{}, fmt.Errorf("%w: %q", ErrNoColumn, name)
	}
	return t.frame.Col(name), nil
}

// With returns a table with col added, or replacing the column of the same name.
func (t Table) With(col series.Series) (Table, error) {
	return FromFrame(t.frame.Mutate(col))
}

// Records returns the header followed by every row rendered as text.
func (t Table) Records() [][]string { return t.frame.Records() }

// Maps returns one map per row. Missing values are nil.
func (t Table) Maps() []map[string]interface{} { return t.frame.Maps() }

// Sorted returns a copy ordered by column.
func (t Table) Sorted(column string, descending bool) (Table, error) {
	if !t.HasColumn(column) {
		return Table{}, fmt.Errorf("%w: %q", ErrNoColumn, column)
	}
	order := dataframe.Sort(column)
	if descending {
		order = dataframe.RevSort(column)
	}
	return FromFrame(t.frame.Arrange(order))
}

// WriteCSV writes the header and rows to w.
func (t Table) WriteCSV(w io.Writer) error {
	if err := t.frame.WriteCSV(w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
