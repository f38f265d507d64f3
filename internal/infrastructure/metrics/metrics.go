package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP request metrics, labelled by method, route and status class
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transfer_ledger",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests processed.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "transfer_ledger",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Balance cache effectiveness
var (
	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transfer_ledger",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Balance cache lookups by outcome (hit, miss, error).",
	}, []string{"outcome"})
)

// Database connection pool gauges, fed by the pool monitor
var (
	DBOpenConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "transfer_ledger",
		Subsystem: "db",
		Name:      "open_connections",
		Help:      "Open database connections.",
	})

	DBInUseConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "transfer_ledger",
		Subsystem: "db",
		Name:      "in_use_connections",
		Help:      "Database connections currently in use.",
	})

	DBIdleConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "transfer_ledger",
		Subsystem: "db",
		Name:      "idle_connections",
		Help:      "Idle database connections.",
	})

	DBWaitCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "transfer_ledger",
		Subsystem: "db",
		Name:      "wait_count_total",
		Help:      "Cumulative number of waits for a database connection.",
	})
)
