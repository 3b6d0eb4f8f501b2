// Package metrics holds the Prometheus collectors shared by the planning
// services.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	aiLatency      *prometheus.HistogramVec
	aiCalls        *prometheus.CounterVec
	geocodeCalls   *prometheus.CounterVec
	fetchAttempts  *prometheus.CounterVec
	handoffLookups *prometheus.CounterVec
	searchSessions prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		aiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ai_completion_duration_seconds",
			Help:    "Time taken by AI completion calls",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 60},
		}, []string{"operation"}),
		aiCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ai_completions_total",
			Help: "AI completion calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		geocodeCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geocode_requests_total",
			Help: "Geocoding autocomplete requests by outcome",
		}, []string{"outcome"}),
		fetchAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trip_fetch_attempts_total",
			Help: "Trip store reads made by the fetch path, by outcome",
		}, []string{"outcome"}),
		handoffLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "handoff_lookups_total",
			Help: "Handoff cache lookups by result",
		}, []string{"result"}),
		searchSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "destination_search_sessions",
			Help: "Open live destination search sessions",
		}),
	}
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

func (m *Metrics) ObserveAI(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.aiLatency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	m.aiCalls.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *Metrics) ObserveGeocode(err error) {
	if m == nil {
		return
	}
	m.geocodeCalls.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) ObserveFetchAttempt(err error) {
	if m == nil {
		return
	}
	m.fetchAttempts.WithLabelValues(outcome(err)).Inc()
}

// ObserveHandoff records a cache lookup; result is "hit", "miss" or "invalid".
func (m *Metrics) ObserveHandoff(result string) {
	if m == nil {
		return
	}
	m.handoffLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) SearchSessionOpened() {
	if m != nil {
		m.searchSessions.Inc()
	}
}

func (m *Metrics) SearchSessionClosed() {
	if m != nil {
		m.searchSessions.Dec()
	}
}
