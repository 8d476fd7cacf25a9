// Package telemetry registers the service's Prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tbatlas_http_requests_total",
		Help: "Total number of HTTP requests served, by method, route and status code",
	}, []string{"method", "route", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tbatlas_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	DatasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tbatlas_dataset_loads_total",
		Help: "Total number of dataset loads, by source and result",
	}, []string{"source", "result"})

	DatasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tbatlas_dataset_rows",
		Help: "Current number of rows in the served dataset",
	})

	SimilarityQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tbatlas_similarity_queries_total",
		Help: "Total number of similarity rankings computed",
	})

	SimilarityDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tbatlas_similarity_rows_dropped_total",
		Help: "Total number of candidate rows dropped for incomplete metric vectors",
	})
)
