package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ExtractionsTotal   *prometheus.CounterVec
	ExtractionDuration *prometheus.HistogramVec

	JobExecutionsTotal *prometheus.CounterVec
	JobsInQueue        prometheus.Gauge
	PostsIngestedTotal prometheus.Counter
)

func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractions_total",
			Help: "Total number of extraction attempts per strategy.",
		},
		[]string{"strategy", "outcome"}, // outcome: markdown, html, none
	)

	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extraction_duration_seconds",
			Help:    "Duration of extraction pipeline runs.",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"outcome"},
	)

	JobExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_executions_total",
			Help: "Total number of queue job executions.",
		},
		[]string{"status"}, // status: success, retry, dead_letter
	)

	JobsInQueue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobs_in_queue",
			Help: "Current number of pending jobs in the queue.",
		},
	)

	PostsIngestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_ingested_total",
			Help: "Total number of posts persisted after extraction.",
		},
	)
}
