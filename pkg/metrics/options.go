package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option customises a Manager built by NewManager or Configure.
type Option func(*Manager)

// WithNamespace replaces the "scorecalc" metric name prefix. Empty keeps the
// default.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithConstLabels attaches fixed labels, such as deployment environment, to
// every series the Manager exports.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if len(labels) == 0 {
			return
		}
		m.constLabels = make(prometheus.Labels, len(labels))
		for k, v := range labels {
			m.constLabels[k] = v
		}
	}
}

// WithPrometheusRegistry registers the Manager's collectors on registry
// instead of the process default.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
