// Package query selects and projects rows of a normalised prediction table.
package query

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/table"
)

// Criteria is the user's selection. Nil Week and Position mean no
// restriction beyond Week > 0.
type Criteria struct {
	Week          *int
	Position      *model.Position
	Filters       []model.Filter
	Models        []string
	IncludeActual bool
}

// Predicates returns the conjuncts Run applies, base predicate first.
func (c Criteria) Predicates() []model.Filter {
	preds := []model.Filter{{Column: model.ColumnWeek, Comparator: model.Greater, Value: 0}}
	if c.Week != nil {
		preds = append(preds, model.Filter{Column: model.ColumnWeek, Comparator: model.Equal, Value: *c.Week})
	}
	if c.Position != nil {
		preds = append(preds, model.Filter{Column: model.ColumnPosition, Comparator: model.Equal, Value: c.Position.String()})
	}
	return append(preds, c.Filters...)
}

// Columns returns the projection: identity columns, actual when requested,
// then the requested metrics in order with duplicates dropped.
func (c Criteria) Columns() []string {
	cols := append([]string(nil), model.IdentityColumns...)
	if c.IncludeActual {
		cols = append(cols, model.ColumnActual)
	}
	seen := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if seen[m] {
			continue
		}
		seen[m] = true
		cols = append(cols, m)
	}
	return cols
}

// Run filters t by the conjunction of c's predicates and projects the result.
// Input row order is preserved. Any invalid column, comparator, metric or
// value fails the whole query.
func Run(t table.Table, c Criteria) (table.Table, error) {
	for _, m := range c.Models {
		if !model.IsMetric(m) {
			return table.Table{}, &EvalError{Expr: fmt.Sprintf("model %q", m), Err: ErrUnknownMetric}
		}
	}

	preds := c.Predicates()
	compiled := make([]dataframe.F, 0, len(preds))
	for _, p := range preds {
		f, err := compile(t, p)
		if err != nil {
			return table.Table{}, err
		}
		compiled = append(compiled, f)
	}

	cols := c.Columns()
	for _, col := range cols {
		if !t.HasColumn(col) {
			return table.Table{}, &EvalError{Expr: fmt.Sprintf("select %q", col), Err: ErrUnknownColumn}
		}
	}

	// dataframe.Filter ORs its arguments, so each conjunct narrows the
	// previous result in turn.
	df := t.Frame()
	for i, f := range compiled {
		df = df.Filter(f)
		if df.Err != nil {
			return table.Table{}, &EvalError{Expr: preds[i].String(), Err: fmt.Errorf("%w: %w", ErrEvaluation, df.Err)}
		}
	}

	df = df.Select(cols)
	if df.Err != nil {
		return table.Table{}, &EvalError{Expr: fmt.Sprintf("select %q", cols), Err: fmt.Errorf("%w: %w", ErrEvaluation, df.Err)}
	}
	return table.FromFrame(df)
}

// compile validates one predicate against the table schema and converts it
// to a dataframe filter.
func compile(t table.Table, p model.Filter) (dataframe.F, error) {
	if !p.Comparator.Valid() {
		return dataframe.F{}, &EvalError{Expr: p.String(), Err: model.ErrUnsupportedComparator}
	}
	if !t.HasColumn(p.Column) {
		return dataframe.F{}, &EvalError{Expr: p.String(), Err: ErrUnknownColumn}
	}
	operand, err := p.Operand()
	if err != nil {
		return dataframe.F{}, &EvalError{Expr: p.String(), Err: err}
	}
	col, _ := t.Column(p.Column)
	// Comparandos are converted to the column type, which would truncate a
	// fractional bound on an int column.
	if v, ok := operand.(float64); ok && v != math.Trunc(v) && col.Type() == series.Int {
		return dataframe.F{
			Colname:    p.Column,
			Comparator: series.CompFunc,
			Comparando: floatPredicate(p.Comparator, v),
		}, nil
	}
	// A missing value differs from every operand.
	if p.Comparator == model.NotEqual {
		ref := series.New([]interface{}{operand}, col.Type(), p.Column).Elem(0)
		return dataframe.F{
			Colname:    p.Column,
			Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool { return !el.Eq(ref) },
		}, nil
	}
	return dataframe.F{
		Colname:    p.Column,
		Comparator: comparator(p.Comparator),
		Comparando: operand,
	}, nil
}

func comparator(c model.Comparator) series.Comparator {
	switch c {
	case model.Greater:
		return series.Greater
	case model.Less:
		return series.Less
	case model.GreaterEq:
		return series.GreaterEq
	case model.LessEq:
		return series.LessEq
	default:
		return series.Eq
	}
}

// floatPredicate compares elements as float64. Missing values only match !=.
func floatPredicate(c model.Comparator, v float64) func(series.Element) bool {
	return func(el series.Element) bool {
		if el.IsNA() {
			return c == model.NotEqual
		}
		x := el.Float()
		switch c {
		case model.Greater:
			return x > v
		case model.Less:
			return x < v
		case model.GreaterEq:
			return x >= v
		case model.LessEq:
			return x <= v
		case model.NotEqual:
			return x != v
		default:
			return x == v
		}
	}
}
