package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freehold_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "freehold_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	onboardingTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freehold_tenant_onboarding_total",
		Help: "Tenant onboarding attempts by result",
	}, []string{"result"})

	occupancyTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freehold_occupancy_transitions_total",
		Help: "Property occupancy status transitions by target status",
	}, []string{"to"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveOnboarding counts a tenant onboarding attempt. Result is one of
// created, denied, error.
func ObserveOnboarding(result string) {
	onboardingTotal.WithLabelValues(result).Inc()
}

// ObserveOccupancyTransition counts a property status change.
func ObserveOccupancyTransition(to string) {
	occupancyTransitions.WithLabelValues(to).Inc()
}
