package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/shadowtree-dev/shadowtree/pkg/dom"
	"github.com/shadowtree-dev/shadowtree/pkg/shadow"
)

// MetricsConfig configures the Prometheus patcher decorator.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "shadowtree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for reconcile duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus patcher decorator.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "shadowtree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Prometheus returns a decorator that instruments every reconciliation.
//
// Metrics collected:
//   - shadowtree_reconciles_total{status}: reconciliations by outcome
//   - shadowtree_reconcile_duration_seconds: patcher apply duration
//
// Each Prometheus() call builds fresh collectors, so wrap one patcher
// per metrics registry.
func Prometheus(opts ...MetricsOption) func(shadow.Patcher) shadow.Patcher {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)
	reconciles := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "reconciles_total",
		Help:        "Total number of reconciliations applied, by outcome",
		ConstLabels: config.ConstLabels,
	}, []string{"status"})
	duration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "reconcile_duration_seconds",
		Help:        "Reconciliation (diff/patch apply) duration in seconds",
		ConstLabels: config.ConstLabels,
		Buckets:     config.Buckets,
	})

	return func(next shadow.Patcher) shadow.Patcher {
		return shadow.PatcherFunc(func(live, target *dom.Node) error {
			start := time.Now()
			err := next.Apply(live, target)
			duration.Observe(time.Since(start).Seconds())

			status := "success"
			if err != nil {
				status = "error"
			}
			reconciles.WithLabelValues(status).Inc()
			return err
		})
	}
}

// TrackedTrees returns a gauge reporting the number of trees the given
// registry currently tracks. Register it alongside the decorator:
//
//	promReg.MustRegister(middleware.TrackedTrees(reg))
func TrackedTrees(reg *shadow.Registry) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "shadowtree",
		Name:      "tracked_trees",
		Help:      "Number of live trees currently tracked by the registry",
	}, func() float64 {
		return float64(reg.Len())
	})
}
