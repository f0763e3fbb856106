// Package obs holds the service's Prometheus instrumentation.
package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReportsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesdash_reports_ingested_total",
		Help: "Submitted reports by kind.",
	}, []string{"kind"})

	DashboardRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesdash_dashboard_requests_total",
		Help: "Dashboard view requests by view.",
	}, []string{"view"})

	AggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "salesdash_aggregation_duration_seconds",
		Help:    "Time spent reducing and deriving one dashboard view.",
		Buckets: prometheus.DefBuckets,
	})

	NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "salesdash_notify_failures_total",
		Help: "Webhook notifications that exhausted retries.",
	})
)
