// Package metrics exposes Prometheus collectors for the discovery pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wca_notifier"

// Subscriber run outcomes.
const (
	OutcomeNotified        = "notified"
	OutcomeNoEvents        = "no_events"
	OutcomeDiscoveryFailed = "discovery_failed"
	OutcomeNotifyFailed    = "notify_failed"
	OutcomeSaveFailed      = "save_failed"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	extractions   *prometheus.CounterVec
	subscribers   *prometheus.CounterVec
	notified      prometheus.Counter
	lastRun       prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetches_total",
		Help:      "Upstream HTTP fetches by host and result",
	}, []string{"host", "result"})
	m.fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Upstream HTTP fetch latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"host"})
	m.extractions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extractions_total",
		Help:      "Event enrichments by result",
	}, []string{"result"})
	m.subscribers = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "subscribers_processed_total",
		Help:      "Subscriber runs by outcome",
	}, []string{"outcome"})
	m.notified = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_notified_total",
		Help:      "Events delivered to subscribers",
	})
	m.lastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last completed background run",
	})

	m.registry.MustRegister(
		m.fetches, m.fetchDuration, m.extractions,
		m.subscribers, m.notified, m.lastRun,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the registry holding all collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveFetch records one upstream request.
func (m *Metrics) ObserveFetch(host string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.fetches.WithLabelValues(host, result).Inc()
	m.fetchDuration.WithLabelValues(host).Observe(d.Seconds())
}

// ObserveExtraction records one enrichment attempt.
func (m *Metrics) ObserveExtraction(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.extractions.WithLabelValues("error").Inc()
		return
	}
	m.extractions.WithLabelValues("ok").Inc()
}

// ObserveSubscriber records how a subscriber's run ended and how many events were delivered.
func (m *Metrics) ObserveSubscriber(outcome string, delivered int) {
	if m == nil {
		return
	}
	m.subscribers.WithLabelValues(outcome).Inc()
	if delivered > 0 {
		m.notified.Add(float64(delivered))
	}
}

// MarkRun stamps the completion time of a background run.
func (m *Metrics) MarkRun(at time.Time) {
	if m == nil {
		return
	}
	m.lastRun.Set(float64(at.Unix()))
}
