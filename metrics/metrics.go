package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Labels are bounded: actions, probe stages, kinds, roles and outcomes are all enumerations.
var (
	ProbeRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "traversal_probe_rejections_total",
		Help: "Traversal probes rejected, by the stage that rejected them",
	}, []string{"action", "stage"})

	ProbeSuccesses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "traversal_probe_successes_total",
		Help: "Traversal probes that found a feasible traversal",
	}, []string{"action", "kind"})

	Starts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "traversal_starts_total",
		Help: "Traversals started, by the network role of the copy starting it",
	}, []string{"action", "role"})

	Ends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "traversal_ends_total",
		Help: "Traversals ended",
	}, []string{"action", "outcome"})

	ContentErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "traversal_content_errors_total",
		Help: "Traversal starts aborted because of missing or malformed content",
	}, []string{"action"})

	DroppedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "traversal_dropped_requests_total",
		Help: "Start requests the authority dropped",
	}, []string{"reason"})

	StartTimeIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "traversal_start_time_iterations",
		Help:    "Iterations of the root motion start time search",
		Buckets: prometheus.LinearBuckets(0, 1, 12),
	})
)

// Handler returns the handler serving the metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
