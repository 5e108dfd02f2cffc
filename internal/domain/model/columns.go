// Package model contains domain models passed between layers.
package model

// Column identifiers, used verbatim against the prediction tables.
const (
	ColumnPlayerID = "player_id"
	ColumnWeek     = "Week"
	ColumnSalary   = "salary"
	ColumnActual   = "actual"

	ColumnQuarterback  = "is Quarterbacks"
	ColumnRunningBack  = "is Running Backs"
	ColumnTightEnd     = "is Tight Ends"
	ColumnWideReceiver = "is Wide Receivers"
	ColumnPosition     = "Position"
	ColumnName         = "Name"
)

// IdentityColumns are always projected, in this order, ahead of the outcome
// and metric columns.
var IdentityColumns = []string{ColumnName, ColumnPosition, ColumnWeek, ColumnSalary}

// Models lists the prediction model families.
var Models = []string{"linear", "boosting", "neighbors"}

// metricSuffixes are the four metric shapes every model family produces.
var metricSuffixes = []string{"predicted points", "Prob > 10", "Prob > 15", "Prob > 20"}

// MetricColumns is the fixed 12-name metric catalog: every suffix for every
// model family, grouped by suffix.
var MetricColumns = buildMetricColumns()

var metricSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(MetricColumns))
	for _, name := range MetricColumns {
		set[name] = struct{}{}
	}
	return set
}()

func buildMetricColumns() []string {
	names := make([]string, 0, len(Models)*len(metricSuffixes))
	for _, suffix := range metricSuffixes {
		for _, m := range Models {
			names = append(names, MetricName(m, suffix))
		}
	}
	return names
}

// MetricName joins a model family and a metric suffix into a column name.
func MetricName(model, suffix string) string {
	return model + " " + suffix
}

// IsMetric reports whether name is one of the catalog metric columns.
func IsMetric(name string) bool {
	_, ok := metricSet[name]
	return ok
}
