package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Guard metrics
	GuardDecisions *prometheus.CounterVec
	GuardDuration  prometheus.Histogram

	// Session metrics
	Logins        *prometheus.CounterVec
	Verifications *prometheus.CounterVec
	Refreshes     *prometheus.CounterVec
	SessionClears prometheus.Counter

	// Permission metrics
	PermissionLookups *prometheus.CounterVec
	MenuTreeLoads     *prometheus.CounterVec

	// Impersonation metrics
	Impersonations *prometheus.CounterVec

	// Backend metrics
	BackendRequests *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec

	// Gateway metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		GuardDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logiadmin_guard_decisions_total",
				Help: "Navigation decisions by outcome and reason",
			},
			[]string{"outcome", "reason"},
		),
		GuardDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "logiadmin_guard_duration_seconds",
			Help:    "Time spent evaluating a navigation",
			Buckets: prometheus.DefBuckets,
		}),

		Logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logiadmin_logins_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		Verifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logiadmin_session_verifications_total",
				Help: "Session restore and verification results",
			},
			[]string{"result"},
		),
		Refreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logiadmin_token_refreshes_total",
				Help: "Token refresh exchanges by mode and result",
			},
			[]string{"mode", "result"},
		),
		SessionClears: factory.NewCounter(prometheus.CounterOpts{
			Name: "logiadmin_session_clears_total",
			Help: "Number of times the session was wiped",
		}),

		PermissionLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logiadmin_permission_lookups_total",
				Help: "Permission lookups by source (hit, miss, fallback, full_access)",
			},
			[]string{"source"},
		),
		MenuTreeLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logiadmin_menu_tree_loads_total",
				Help: "Menu tree loads by result",
			},
			[]string{"result"},
		),

		Impersonations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logiadmin_impersonations_total",
				Help: "Impersonation start and stop attempts by result",
			},
			[]string{"action", "result"},
		),

		BackendRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logiadmin_backend_requests_total",
				Help: "Backend API requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		BackendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "logiadmin_backend_request_duration_seconds",
				Help:    "Backend API request duration",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logiadmin_http_requests_total",
				Help: "Total number of gateway HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "logiadmin_http_request_duration_seconds",
				Help:    "Gateway HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "logiadmin_http_requests_in_flight",
			Help: "Number of gateway requests currently being processed",
		}),
	}
}
