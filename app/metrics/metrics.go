// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed loading metrics
var (
	// FeedLoadsTotal counts load attempts by feed and outcome
	FeedLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_loads_total",
			Help: "Total number of feed load attempts",
		},
		[]string{"feed", "status"},
	)

	// FeedLoadDuration measures how long a feed load takes in seconds
	FeedLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_load_duration_seconds",
			Help:    "Feed load duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"feed"},
	)

	// BillsLoaded is the size of the current bill collection per feed
	BillsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bills_loaded",
			Help: "Number of bills in the current collection of a feed",
		},
		[]string{"feed"},
	)

	// RecordsParsedTotal counts records produced by the delimited and RSS parsers
	RecordsParsedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "records_parsed_total",
			Help: "Total number of records parsed from feed files",
		},
	)
)

// Filter metrics
var (
	// FilterMutationsTotal counts selection changes by result
	FilterMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_mutations_total",
			Help: "Total number of filter selection changes",
		},
		[]string{"result"},
	)

	// FilterSessionsActive tracks open filter sessions
	FilterSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filter_sessions_active",
			Help: "Number of active filter sessions",
		},
	)
)

// RecordFeedLoad records the outcome of a single feed load.
// On success count is the number of bills now held for the feed.
func RecordFeedLoad(feed string, duration time.Duration, count int, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	FeedLoadsTotal.WithLabelValues(feed, status).Inc()
	FeedLoadDuration.WithLabelValues(feed).Observe(duration.Seconds())
	if err == nil {
		BillsLoaded.WithLabelValues(feed).Set(float64(count))
		RecordsParsedTotal.Add(float64(count))
	}
}

// RecordFilterMutation counts a selection change. Result is "applied"
// or "not_found".
func RecordFilterMutation(applied bool) {
	result := "applied"
	if !applied {
		result = "not_found"
	}
	FilterMutationsTotal.WithLabelValues(result).Inc()
}

func UpdateSessionsActive(count int) {
	FilterSessionsActive.Set(float64(count))
}
