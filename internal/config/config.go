// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and DRAFTBOARD_ env vars.
// - Validation errors wrap ErrInvalidConfig; provider errors wrap ErrLoadConfig.
package config

import (
	"regexp"
	"time"

	"github.com/okian/draftboard/internal/domain/model"
)

// metricName matches Prometheus metric and label name segments.
var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// HistoricalPath and CurrentPath locate the prediction CSV files.
	HistoricalPath string `koanf:"historical_path"`
	CurrentPath    string `koanf:"current_path"`

	// HistoricalSeason and the inclusive week range offered from the historical table.
	HistoricalSeason    int `koanf:"historical_season"`
	HistoricalFirstWeek int `koanf:"historical_first_week"`
	HistoricalLastWeek  int `koanf:"historical_last_week"`

	// CurrentSeason and CurrentWeek label the single week of the current table.
	CurrentSeason int `koanf:"current_season"`
	CurrentWeek   int `koanf:"current_week"`

	// BackfillActual adds a zero actual column to the current table when absent.
	BackfillActual bool `koanf:"backfill_actual"`

	// MaxFilters caps the column filters accepted per query.
	MaxFilters int `koanf:"max_filters"`

	// DefaultModels is the metric selection shown first.
	DefaultModels []string `koanf:"default_models"`

	// Metrics controls the Prometheus exposition on /healthz.
	MetricsEnabled         bool              `koanf:"metrics_enabled"`
	MetricsNamespace       string            `koanf:"metrics_namespace"`
	MetricsSubsystem       string            `koanf:"metrics_subsystem"`
	MetricsPrefix          string            `koanf:"metrics_prefix"`
	MetricsRefreshInterval time.Duration     `koanf:"metrics_refresh_interval"`
	MetricsLabels          map[string]string `koanf:"metrics_labels"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		HistoricalPath:      "full_fantasy_predictions_2020",
		CurrentPath:         "full_fantasy_predictions_2024_with_week_17",
		HistoricalSeason:    2020,
		HistoricalFirstWeek: 5,
		HistoricalLastWeek:  17,
		CurrentSeason:       2024,
		CurrentWeek:         17,
		BackfillActual:      true,
		MaxFilters:          16,
		DefaultModels:       []string{"boosting predicted points"},

		MetricsEnabled:         true,
		MetricsNamespace:       "draftboard",
		MetricsSubsystem:       "predictions",
		MetricsRefreshInterval: 30 * time.Second,
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.HistoricalPath == "":
		return invalid("historical_path must not be empty")
	case c.CurrentPath == "":
		return invalid("current_path must not be empty")
	case c.HistoricalFirstWeek < 1 || c.HistoricalLastWeek < c.HistoricalFirstWeek:
		return invalid("historical week range must be positive and ordered")
	case c.CurrentWeek < 1:
		return invalid("current_week must be positive")
	case c.MaxFilters < 0:
		return invalid("max_filters must not be negative")
	case !metricName.MatchString(c.MetricsNamespace):
		return invalid("metrics_namespace must be a metric name segment")
	case !metricName.MatchString(c.MetricsSubsystem):
		return invalid("metrics_subsystem must be a metric name segment")
	case c.MetricsPrefix != "" && !metricName.MatchString(c.MetricsPrefix):
		return invalid("metrics_prefix must be a metric name segment")
	case c.MetricsRefreshInterval <= 0:
		return invalid("metrics_refresh_interval must be positive")
	}
	for name := range c.MetricsLabels {
		if !metricName.MatchString(name) {
			return invalid("metrics_labels: invalid label name " + name)
		}
	}
	for _, m := range c.DefaultModels {
		if !model.IsMetric(m) {
			return invalid("default_models: unknown metric " + m)
		}
	}
	return nil
}
