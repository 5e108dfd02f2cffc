package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace replaces the leading "draftboard" of every metric name.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem replaces the "predictions" segment of every metric name.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithMetricPrefix prepends prefix to each base name, after the subsystem.
func WithMetricPrefix(prefix string) Option {
	return func(m *Manager) {
		m.metricPrefix = prefix
	}
}

// WithMetricsEnabled turns recording on or off. Disabled managers still
// register their collectors, so the /healthz exposition keeps its families.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithRefreshInterval sets how often table gauges are refreshed from the
// service. Non-positive values keep the default.
func WithRefreshInterval(interval time.Duration) Option {
	return func(m *Manager) {
		if interval > 0 {
			m.refreshInterval = interval
		}
	}
}

// WithCustomLabels attaches constant labels, such as an instance name, to
// every metric.
func WithCustomLabels(labels map[string]string) Option {
	return func(m *Manager) {
		for k, v := range labels {
			m.customLabels[k] = v
		}
	}
}

// WithPrometheusRegistry registers collectors on registry instead of the
// process default.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
