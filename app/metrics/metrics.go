// Package metrics provides Prometheus metrics for the portfolio server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchTotal counts finished feed fetches by source and outcome.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "feed_fetch_total",
			Help:      "Total number of finished feed fetches",
		},
		[]string{"source", "outcome"},
	)

	// FetchDuration measures fetch duration including retries.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portfolio",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of feed fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// FetchEntries observes how many entries a successful fetch returned.
	FetchEntries = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "portfolio",
			Name:      "feed_fetch_entries",
			Help:      "Distribution of entry counts per successful fetch",
			Buckets:   []float64{0, 1, 5, 10, 20, 50},
		},
	)

	ViewsActivated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "views_activated_total",
			Help:      "Total number of activated writing views",
		},
	)

	ViewsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "views_resolved_total",
			Help:      "Total number of writing views that reached a terminal phase",
		},
		[]string{"phase"},
	)

	// ViewsSuppressed counts results dropped because the view was torn down first.
	ViewsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "views_suppressed_total",
			Help:      "Total number of fetch results dropped after view teardown",
		},
	)

	OpenViews = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "portfolio",
			Name:      "open_views",
			Help:      "Number of writing views currently registered",
		},
	)
)

// RecordFetch records a finished fetch.
func RecordFetch(source, outcome string, duration float64, entries int) {
	FetchTotal.WithLabelValues(source, outcome).Inc()
	FetchDuration.WithLabelValues(source).Observe(duration)
	if outcome == "ok" {
		FetchEntries.Observe(float64(entries))
	}
}

func ViewActivated() {
	ViewsActivated.Inc()
}

func ViewResolved(phase string) {
	ViewsResolved.WithLabelValues(phase).Inc()
}

func ViewSuppressed() {
	ViewsSuppressed.Inc()
}

func SetOpenViews(n int) {
	OpenViews.Set(float64(n))
}
