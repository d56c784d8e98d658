package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	computations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookprint",
			Name:      "computations_total",
			Help:      "Geometry computations by kind (spine, cover, pages, structure)",
		},
		[]string{"kind"},
	)

	imageAnalyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookprint",
			Name:      "image_analyses_total",
			Help:      "Photo print-readiness verdicts by status",
		},
		[]string{"status"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookprint",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)

	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bookprint",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	proofsRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookprint",
			Name:      "proofs_rendered_total",
			Help:      "Proof PDFs rendered by kind (cover, interior)",
		},
		[]string{"kind"},
	)
)

func init() {
	registry.MustRegister(
		computations, imageAnalyses, httpRequests, httpLatency, proofsRendered,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler returns the http.Handler for /metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// Gatherer exposes the registry for tests.
func Gatherer() prometheus.Gatherer { return registry }

func IncComputation(kind string) { computations.WithLabelValues(kind).Inc() }

func IncImageAnalysis(status string) { imageAnalyses.WithLabelValues(status).Inc() }

func IncProof(kind string) { proofsRendered.WithLabelValues(kind).Inc() }

// ObserveHTTP records one served request.
func ObserveHTTP(route string, code int, dur time.Duration) {
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	httpLatency.WithLabelValues(route).Observe(dur.Seconds())
}
