// Package selection resolves dashboard selector labels into query inputs.
package selection

import (
	"fmt"

	"github.com/okian/draftboard/internal/domain/model"
)

// Default catalog bounds.
const (
	defaultCurrentSeason    = 2024
	defaultCurrentWeek      = 17
	defaultHistoricalSeason = 2020
	defaultFirstWeek        = 5
	defaultLastWeek         = 17
)

// DefaultModels is the metric selection shown before the user picks any.
var DefaultModels = []string{"boosting predicted points"}

// Choice is a resolved week selection. Current picks the current table; Week
// is nil when the whole table is wanted.
type Choice struct {
	Current bool
	Week    *int
}

// Option applies a configuration option to the Catalog.
type Option func(*Catalog)

// WithCurrent sets the season and the single week of the current table.
func WithCurrent(season, week int) Option {
	return func(c *Catalog) {
		if season > 0 && week > 0 {
			c.currentSeason = season
			c.currentWeek = week
		}
	}
}

// WithHistorical sets the season and inclusive week range of the historical table.
func WithHistorical(season, first, last int) Option {
	return func(c *Catalog) {
		if season > 0 && first > 0 && last >= first {
			c.historicalSeason = season
			c.firstWeek = first
			c.lastWeek = last
		}
	}
}

// WithDefaultModels overrides the initial metric selection.
func WithDefaultModels(models []string) Option {
	return func(c *Catalog) {
		if len(models) > 0 {
			c.defaultModels = append([]string(nil), models...)
		}
	}
}

// Catalog lists the selectable weeks, positions and metrics.
type Catalog struct {
	currentSeason    int
	currentWeek      int
	historicalSeason int
	firstWeek        int
	lastWeek         int
	defaultModels    []string

	labels  []string
	choices map[string]Choice
}

// NewCatalog creates a catalog; the current week is always listed first.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		currentSeason:    defaultCurrentSeason,
		currentWeek:      defaultCurrentWeek,
		historicalSeason: defaultHistoricalSeason,
		firstWeek:        defaultFirstWeek,
		lastWeek:         defaultLastWeek,
		defaultModels:    DefaultModels,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.choices = make(map[string]Choice, c.lastWeek-c.firstWeek+2)
	current := Label(c.currentSeason, c.currentWeek)
	c.labels = append(c.labels, current)
	c.choices[current] = Choice{Current: true}
	for w := c.firstWeek; w <= c.lastWeek; w++ {
		week := w
		label := Label(c.historicalSeason, week)
		c.labels = append(c.labels, label)
		c.choices[label] = Choice{Week: &week}
	}
	return c
}

// Label formats a week selector entry, e.g. "2020 Week 5".
func Label(season, week int) string {
	return fmt.Sprintf("%d Week %d", season, week)
}

// Weeks returns the selector labels in display order.
func (c *Catalog) Weeks() []string {
	return append([]string(nil), c.labels...)
}

// CurrentLabel is the label of the current week.
func (c *Catalog) CurrentLabel() string { return c.labels[0] }

// Positions returns the selectable positions.
func (c *Catalog) Positions() []model.Position {
	return append([]model.Position(nil), model.Positions...)
}

// Metrics returns the metric catalog.
func (c *Catalog) Metrics() []string {
	return append([]string(nil), model.MetricColumns...)
}

// DefaultModels returns the initial metric selection.
func (c *Catalog) DefaultModels() []string {
	return append([]string(nil), c.defaultModels...)
}

// Resolve maps a label to a Choice. An empty label selects the current week.
func (c *Catalog) Resolve(label string) (Choice, error) {
	if label == "" {
		label = c.CurrentLabel()
	}
	choice, ok := c.choices[label]
	if !ok {
		return Choice{}, fmt.Errorf("%w: %q", ErrUnknownWeek, label)
	}
	if choice.Week != nil {
		w := *choice.Week
		choice.Week = &w
	}
	return choice, nil
}
