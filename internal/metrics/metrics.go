// Package metrics exports store intent outcomes to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lustre-atelier/backoffice/internal/resource"
	"github.com/lustre-atelier/backoffice/internal/store"
)

const namespace = "backoffice"

// Intents counts and times store intents. It implements store.Observer.
type Intents struct {
	registry *prometheus.Registry
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func New() *Intents {
	m := &Intents{
		registry: prometheus.NewRegistry(),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Settled store intents by resource, intent and outcome.",
		}, []string{"resource", "intent", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "intent_duration_seconds",
			Help:      "Time from dispatch to settlement of store intents.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource", "intent"}),
	}
	m.registry.MustRegister(m.total, m.duration)
	return m
}

func (m *Intents) ObserveIntent(kind resource.Kind, intent store.Intent, outcome store.Outcome, elapsed time.Duration) {
	m.total.WithLabelValues(kind.Plural, intent.String(), string(outcome)).Inc()
	m.duration.WithLabelValues(kind.Plural, intent.String()).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Intents) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Intents) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
