package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ChatRequests    *prometheus.CounterVec
	Classifications *prometheus.CounterVec
	Persistence     *prometheus.CounterVec
	ReplyLatency    *prometheus.HistogramVec
}

// New registers the instruments on a private registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ChatRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat requests by route and outcome.",
		}, []string{"route", "outcome"}),
		Classifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topic_classifications_total",
			Help:      "Topic classifier verdicts by source.",
		}, []string{"source", "in_domain"}),
		Persistence: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_persistence_total",
			Help:      "Best-effort chat persistence outcomes.",
		}, []string{"outcome"}),
		ReplyLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reply_latency_seconds",
			Help:      "Time to produce a reply in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		}, []string{"route"}),
	}
}

// ObserveChat counts a chat request and records its latency when it succeeded.
func (m *Metrics) ObserveChat(route, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ChatRequests.WithLabelValues(route, outcome).Inc()
	if outcome == "ok" {
		m.ReplyLatency.WithLabelValues(route).Observe(d.Seconds())
	}
}

// ObserveClassification counts a classifier verdict by source.
func (m *Metrics) ObserveClassification(source string, inDomain bool) {
	if m == nil {
		return
	}
	label := "false"
	if inDomain {
		label = "true"
	}
	m.Classifications.WithLabelValues(source, label).Inc()
}

// ObservePersistence counts the outcome of persisting one exchange.
func (m *Metrics) ObservePersistence(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Persistence.WithLabelValues(outcome).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
