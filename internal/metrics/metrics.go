package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "atlasdash",
		Name:      "upstream_requests_total",
		Help:      "Atlas backend requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "atlasdash",
		Name:      "upstream_request_seconds",
		Help:      "Atlas backend request latency by endpoint.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	panelLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "atlasdash",
		Name:      "panel_loads_total",
		Help:      "Panel load attempts by panel and outcome.",
	}, []string{"panel", "outcome"})
)

// ObserveUpstream records one backend call
func ObserveUpstream(endpoint, outcome string, elapsed time.Duration) {
	upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	upstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObservePanelLoad records one panel load outcome
func ObservePanelLoad(panel, outcome string) {
	panelLoads.WithLabelValues(panel, outcome).Inc()
}

// Handler exposes the registry for the /metrics route
func Handler() http.Handler {
	return promhttp.Handler()
}
