package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PermissionChecks counts flag-gate evaluations by permission key and outcome (allowed|denied|error).
	PermissionChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orgdesk_permission_checks_total",
			Help: "Total number of permission flag checks",
		},
		[]string{"permission", "result"},
	)

	// Resolutions counts effective-permission resolutions by source (override|role_default).
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orgdesk_permission_resolutions_total",
			Help: "Total number of effective permission resolutions",
		},
		[]string{"source"},
	)

	// OverrideMutations counts override writes by action (apply|apply_template|reset).
	OverrideMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orgdesk_permission_override_mutations_total",
			Help: "Total number of user permission override mutations",
		},
		[]string{"action"},
	)

	// TemplateMutations counts template writes by action (create|update|delete).
	TemplateMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orgdesk_permission_template_mutations_total",
			Help: "Total number of permission template mutations",
		},
		[]string{"action"},
	)

	// Requests counts served HTTP requests by route template and status.
	Requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orgdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestsInFlight tracks requests currently being served.
	RequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orgdesk_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Panics counts handler panics recovered by the HTTP stack.
	Panics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orgdesk_http_panics_total",
			Help: "Total number of recovered handler panics",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orgdesk_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
