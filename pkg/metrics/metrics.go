// Package metrics exposes Prometheus collectors for element construction and
// batched flushing.
//
// A nil *Metrics is valid and records nothing, so components can take an
// optional recorder without nil checks at every call site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "elkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for nodes moved per flush.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "elkit",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors.
type Metrics struct {
	nodesCreated *prometheus.CounterVec
	diagnostics  *prometheus.CounterVec
	pending      prometheus.Gauge
	flushes      *prometheus.CounterVec
	flushNodes   prometheus.Histogram
}

// New creates and registers the collectors.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		nodesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_created_total",
			Help:        "Total number of elements created, by tag",
			ConstLabels: config.ConstLabels,
		}, []string{"tag"}),

		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diagnostics_total",
			Help:        "Total number of advisory diagnostics, by code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		pending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batch_pending_nodes",
			Help:        "Nodes waiting in batch fragments",
			ConstLabels: config.ConstLabels,
		}),

		flushes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of flushes, by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		flushNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_nodes",
			Help:        "Nodes moved into the visible tree per flush",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Flush outcomes.
const (
	OutcomeScheduled = "scheduled"
	OutcomeFired     = "fired"
	OutcomeCanceled  = "canceled"
)

// NodeCreated records a new element.
func (m *Metrics) NodeCreated(tag string) {
	if m == nil {
		return
	}
	m.nodesCreated.WithLabelValues(tag).Inc()
}

// Diagnostic records an advisory diagnostic.
func (m *Metrics) Diagnostic(code string) {
	if m == nil {
		return
	}
	m.diagnostics.WithLabelValues(code).Inc()
}

// PendingAdd adjusts the pending node gauge.
func (m *Metrics) PendingAdd(delta int) {
	if m == nil {
		return
	}
	m.pending.Add(float64(delta))
}

// Flush records a flush transition.
func (m *Metrics) Flush(outcome string) {
	if m == nil {
		return
	}
	m.flushes.WithLabelValues(outcome).Inc()
}

// FlushNodes records the nodes moved by a fired flush.
func (m *Metrics) FlushNodes(n int) {
	if m == nil {
		return
	}
	m.flushNodes.Observe(float64(n))
}
