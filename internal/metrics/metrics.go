// Package metrics exposes Prometheus instrumentation for the
// classification pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the pipeline's Prometheus metrics.
type Collector struct {
	classifications  *prometheus.CounterVec
	fallbackFailures *prometheus.CounterVec
	organizeRequests prometheus.Counter
	organizeItems    prometheus.Counter
}

// New creates an unregistered metrics collector.
func New() *Collector {
	c := &Collector{}

	c.classifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aisleflow",
		Name:      "classifications_total",
		Help:      "Item classifications by source (rule, fallback, cache, manual, unclassified)",
	}, []string{"source"})

	c.fallbackFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aisleflow",
		Name:      "fallback_failures_total",
		Help:      "Fallback classifications that degraded to no result, by reason",
	}, []string{"reason"})

	c.organizeRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aisleflow",
		Name:      "organize_requests_total",
		Help:      "Organize calls processed",
	})

	c.organizeItems = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aisleflow",
		Name:      "organize_items_total",
		Help:      "Items processed across all organize calls",
	})

	return c
}

// Register registers all collectors with reg.
func (c *Collector) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		c.classifications,
		c.fallbackFailures,
		c.organizeRequests,
		c.organizeItems,
	)
}

// RecordClassification counts one classification by source.
func (c *Collector) RecordClassification(source string) {
	c.classifications.WithLabelValues(source).Inc()
}

// RecordFallbackFailure counts one degraded fallback call.
func (c *Collector) RecordFallbackFailure(reason string) {
	c.fallbackFailures.WithLabelValues(reason).Inc()
}

// RecordOrganize counts one organize call over n items.
func (c *Collector) RecordOrganize(n int) {
	c.organizeRequests.Inc()
	c.organizeItems.Add(float64(n))
}
