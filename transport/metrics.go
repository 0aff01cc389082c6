package transport

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	fetches    *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	strategies *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "harvest",
			Name:      "fetches_total",
			Help:      "Upstream fetches by host and outcome.",
		}, []string{"host", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "harvest",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream fetch latency, retries included.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"host"}),
		strategies: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "harvest",
			Name:      "state_strategy_total",
			Help:      "Which embedded-state strategy produced the search results.",
		}, []string{"strategy"}),
	}
}

func (m *Metrics) ObserveFetch(host, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(host, outcome).Inc()
	m.duration.WithLabelValues(host).Observe(elapsed.Seconds())
}

// ObserveStrategy counts a state extraction result; "none" means the markup
// fallback ran.
func (m *Metrics) ObserveStrategy(strategy string) {
	if m == nil {
		return
	}
	m.strategies.WithLabelValues(strategy).Inc()
}
