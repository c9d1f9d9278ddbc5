package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// OutcomeOK labels a fetch that produced records.
const OutcomeOK = "ok"

var (
	upstreamFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fire_api_upstream_fetches_total",
		Help: "FIRMS queries by outcome (ok or failure kind)",
	}, []string{"outcome"})
	upstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fire_api_upstream_fetch_duration_seconds",
		Help:    "Time spent fetching and transforming the FIRMS feed",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	})
	lastRecordCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fire_api_last_record_count",
		Help: "Records returned by the most recent FIRMS query",
	})
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fire_api_http_requests_total",
		Help: "HTTP requests served by route and status",
	}, []string{"route", "status"})
)

// ObserveFetch records one FIRMS query.
func ObserveFetch(outcome string, records int, elapsed time.Duration) {
	upstreamFetches.WithLabelValues(outcome).Inc()
	upstreamDuration.Observe(elapsed.Seconds())
	lastRecordCount.Set(float64(records))
}

// ObserveRequest counts one served HTTP request.
func ObserveRequest(route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// FetchCount returns the counter value for outcome. Used by tests.
func FetchCount(outcome string) float64 {
	return counterValue(upstreamFetches.WithLabelValues(outcome))
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
