package router

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the router's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	routedTotal     *prometheus.CounterVec
	hitsTotal       *prometheus.CounterVec
	evaluated       prometheus.Histogram
	routingDuration prometheus.Histogram
	registered      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg, or with
// the default registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		routedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "reqmatch_routed_requests_total", Help: "Requests routed, by result"},
			[]string{"result"},
		),
		hitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "reqmatch_expectation_hits_total", Help: "Requests matched, by expectation"},
			[]string{"expectation"},
		),
		evaluated: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reqmatch_candidates_evaluated",
			Help:    "Expectations evaluated per routed request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		routingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reqmatch_routing_duration_seconds",
			Help:    "Time spent routing a request, including near-miss analysis",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		registered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "reqmatch_registered_expectations",
			Help: "Registered expectations",
		}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.routedTotal, m.hitsTotal, m.evaluated, m.routingDuration, m.registered)
	return m
}

// Handler serves the metrics gathered by g, or the default gatherer when g
// is nil.
func (m *Metrics) Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(res *Result, elapsed time.Duration) {
	if m == nil {
		return
	}
	if res.Matched {
		m.routedTotal.WithLabelValues("matched").Inc()
		m.hitsTotal.WithLabelValues(res.ID).Inc()
	} else {
		m.routedTotal.WithLabelValues("unmatched").Inc()
	}
	m.evaluated.Observe(float64(res.Evaluated))
	m.routingDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) setRegistered(n int) {
	if m == nil {
		return
	}
	m.registered.Set(float64(n))
}
