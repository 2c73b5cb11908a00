package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// ProviderCalls counts outbound calls by provider endpoint and outcome.
	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "provider_calls_total", Help: "Outbound provider calls."},
		[]string{"endpoint", "status"},
	)
	ProviderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "provider_call_duration_seconds", Help: "Outbound provider call duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"endpoint"},
	)

	// RouteRetries counts perturbation retry loops by final outcome.
	RouteRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_retries_total", Help: "Unreachable route retry loops by outcome."},
		[]string{"outcome"},
	)
	GeocodeCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "geocode_cache_total", Help: "Geocode cache lookups by result."},
		[]string{"result"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)
)

var regOnce sync.Once

// RegisterMetrics registers collectors on Registry once per process.
func RegisterMetrics() {
	regOnce.Do(func() {
		Registry.MustRegister(ProviderCalls, ProviderDuration, RouteRetries, GeocodeCache, HTTPRequests, HTTPDuration)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
