package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the map service.
type Metrics struct {
	Renders         *prometheus.CounterVec // labels: outcome={rendered,gated}
	MarkersRendered prometheus.Counter
	RenderDuration  prometheus.Histogram
	DatasetRecords  prometheus.Gauge

	// Per-record outcomes.
	Ratings             *prometheus.CounterVec // labels: rating={excellent,good,bad,critical}
	MetricParseFailures prometheus.Counter
	RecordsSkipped      prometheus.Counter
	MarkerPublishErrors prometheus.Counter
	MarkerSetsPublished prometheus.Counter

	// Icon rendering metrics.
	IconRequests *prometheus.CounterVec // labels: outcome={success,error,unknown_account}
	IconCache    *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Renders,
		m.MarkersRendered,
		m.RenderDuration,
		m.DatasetRecords,
		m.Ratings,
		m.MetricParseFailures,
		m.RecordsSkipped,
		m.MarkerPublishErrors,
		m.MarkerSetsPublished,
		m.IconRequests,
		m.IconCache,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "charger_map",
			Name:      "renders_total",
			Help:      "Marker renders by outcome.",
		}, []string{"outcome"}),
		MarkersRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "charger_map",
			Name:      "markers_rendered_total",
			Help:      "Total marker specifications produced.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "charger_map",
			Name:      "render_duration_seconds",
			Help:      "Duration of a complete filter and marker mapping pass.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "charger_map",
			Name:      "dataset_records",
			Help:      "Number of charger records loaded.",
		}),
		Ratings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "charger_map",
			Name:      "ratings_total",
			Help:      "Rated markers by rating.",
		}, []string{"rating"}),
		MetricParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "charger_map",
			Name:      "metric_parse_failures_total",
			Help:      "Markers rendered gray because the metric value was not numeric.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "charger_map",
			Name:      "records_skipped_total",
			Help:      "Records left off the map because of an invalid position.",
		}),
		MarkerPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "charger_map",
			Name:      "marker_publish_errors_total",
			Help:      "Marker sets that failed to publish.",
		}),
		MarkerSetsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "charger_map",
			Name:      "marker_sets_published_total",
			Help:      "Marker sets published to the marker topic.",
		}),
		IconRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "charger_map",
			Name:      "icon_requests_total",
			Help:      "Icon render requests by outcome.",
		}, []string{"outcome"}),
		IconCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "charger_map",
			Name:      "icon_cache_total",
			Help:      "Icon cache lookups by result.",
		}, []string{"result"}),
	}
}
