// Package metrics exposes Prometheus counters for the feed pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the pipeline's Prometheus metrics. A nil Collector
// is valid and records nothing, so library callers that do not run
// Prometheus can pass nil instead of wiring a registry.
type Collector struct {
	eventsExtracted   *prometheus.CounterVec
	eventsMissingUID  *prometheus.CounterVec
	blocksTruncated   *prometheus.CounterVec
	dateParseFailures *prometheus.CounterVec
	fetchFailures     *prometheus.CounterVec
	syncs             *prometheus.CounterVec
}

// NewCollector creates and registers the pipeline metrics with reg.
// The daemon passes prometheus.DefaultRegisterer; tests pass a fresh
// registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		eventsExtracted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calsift_events_extracted_total",
				Help: "Total number of events extracted from fetched feeds",
			},
			[]string{"source"},
		),
		eventsMissingUID: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calsift_events_missing_uid_total",
				Help: "Total number of VEVENT blocks dropped for lack of a UID",
			},
			[]string{"source"},
		),
		blocksTruncated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calsift_blocks_truncated_total",
				Help: "Total number of VEVENT blocks left open at end of input",
			},
			[]string{"source"},
		),
		dateParseFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calsift_date_parse_failures_total",
				Help: "Total number of extracted events whose start value did not parse",
			},
			[]string{"source"},
		),
		fetchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calsift_fetch_failures_total",
				Help: "Total number of failed source fetches",
			},
			[]string{"source"},
		),
		syncs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calsift_syncs_total",
				Help: "Total number of sync runs by outcome",
			},
			[]string{"status"},
		),
	}
}

// AddEventsExtracted adds n extracted events for a source.
func (c *Collector) AddEventsExtracted(source string, n int) {
	if c == nil {
		return
	}
	c.eventsExtracted.WithLabelValues(source).Add(float64(n))
}

// AddEventsMissingUID adds n dropped blocks for a source.
func (c *Collector) AddEventsMissingUID(source string, n int) {
	if c == nil {
		return
	}
	c.eventsMissingUID.WithLabelValues(source).Add(float64(n))
}

// AddBlocksTruncated adds n truncated blocks for a source.
func (c *Collector) AddBlocksTruncated(source string, n int) {
	if c == nil {
		return
	}
	c.blocksTruncated.WithLabelValues(source).Add(float64(n))
}

// AddDateParseFailures adds n unparseable start values for a source.
func (c *Collector) AddDateParseFailures(source string, n int) {
	if c == nil {
		return
	}
	c.dateParseFailures.WithLabelValues(source).Add(float64(n))
}

// IncFetchFailures increments the fetch failure counter for a source.
func (c *Collector) IncFetchFailures(source string) {
	if c == nil {
		return
	}
	c.fetchFailures.WithLabelValues(source).Inc()
}

// IncSyncs increments the sync counter for an outcome ("ok", "error").
func (c *Collector) IncSyncs(status string) {
	if c == nil {
		return
	}
	c.syncs.WithLabelValues(status).Inc()
}
