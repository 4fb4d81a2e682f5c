package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "motordesk_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "motordesk_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "motordesk_import_rows_total",
			Help: "Total number of CSV import rows by type and result",
		},
		[]string{"type", "result"},
	)

	ContractMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "motordesk_contract_mutations_total",
			Help: "Total number of contract mutations by operation",
		},
		[]string{"operation"},
	)
)
