package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PointQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelmap_point_queries_total",
			Help: "Total number of point queries answered",
		},
		[]string{"outcome"},
	)

	RegionQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fuelmap_region_queries_total",
			Help: "Total number of region grid queries answered",
		},
	)

	ResolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fuelmap_resolve_duration_seconds",
			Help:    "Time spent resolving overlay precedence per request",
			Buckets: prometheus.DefBuckets,
		},
	)

	GapSamples = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fuelmap_gap_samples_total",
			Help: "Total number of grid samples evaluated for gap analysis",
		},
	)

	IngestProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelmap_ingest_processed_total",
			Help: "Datasets successfully ingested per tenant",
		},
		[]string{"tenant"},
	)

	IngestFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuelmap_ingest_failed_total",
			Help: "Dataset ingest failures per tenant",
		},
		[]string{"tenant"},
	)

	ActiveConsumers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fuelmap_ingest_consumers_active",
			Help: "Number of running per-tenant ingest consumers",
		},
	)

	QueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fuelmap_ingest_queue_depth",
			Help: "Current ingest queue depth per tenant",
		},
		[]string{"tenant"},
	)
)

// Init registers metrics with Prometheus
func Init() {
	prometheus.MustRegister(PointQueries)
	prometheus.MustRegister(RegionQueries)
	prometheus.MustRegister(ResolveDuration)
	prometheus.MustRegister(GapSamples)
	prometheus.MustRegister(IngestProcessed)
	prometheus.MustRegister(IngestFailed)
	prometheus.MustRegister(ActiveConsumers)
	prometheus.MustRegister(QueueDepth)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
