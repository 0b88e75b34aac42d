package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream service labels
const (
	ServiceDirectory  = "directory"
	ServiceClassifier = "classifier"
	ServiceIdentity   = "identity"
)

// Search outcome labels
const (
	OutcomeMatched    = "matched"
	OutcomeNoMatch    = "no_match"
	OutcomeCleared    = "cleared"
	OutcomeSuperseded = "superseded"
)

// Metrics holds all application metrics
type Metrics struct {
	// Directory search metrics
	Searches       *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
	BaselineSize   prometheus.Histogram

	// Upstream HTTP metrics
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	UpstreamRetries  *prometheus.CounterVec

	// Video call metrics
	CallsJoined prometheus.Counter
	CallsEnded  *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics on reg.
func NewMetrics(reg prometheus.Registerer, namespace, subsystem string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "directory_searches_total",
			Help:      "Total number of directory searches by outcome",
		}, []string{"outcome"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "directory_sessions_active",
			Help:      "Current number of open directory sessions",
		}),
		BaselineSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "directory_baseline_size",
			Help:      "Number of approved doctors loaded into a baseline directory",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),

		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upstream_requests_total",
			Help:      "Total number of outbound requests",
		}, []string{"service", "status"}),
		UpstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of outbound requests",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"service"}),
		UpstreamRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upstream_retry_attempts_total",
			Help:      "Total number of retried outbound requests",
		}, []string{"service"}),

		CallsJoined: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "calls_joined_total",
			Help:      "Total number of issued call sessions",
		}),
		CallsEnded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "calls_ended_total",
			Help:      "Total number of reported call completions by reason",
		}, []string{"reason"}),
	}
}

// ObserveUpstream records one outbound request. A nil receiver is a no-op so
// clients can run without metrics in tests.
func (m *Metrics) ObserveUpstream(service, status string, started time.Time) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(service, status).Inc()
	m.UpstreamLatency.WithLabelValues(service).Observe(time.Since(started).Seconds())
}

// ObserveRetry counts a retried outbound request.
func (m *Metrics) ObserveRetry(service string) {
	if m == nil {
		return
	}
	m.UpstreamRetries.WithLabelValues(service).Inc()
}

// ObserveSearch counts a finished search by outcome.
func (m *Metrics) ObserveSearch(outcome string) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(outcome).Inc()
}

// ObserveBaseline records the size of a freshly loaded baseline.
func (m *Metrics) ObserveBaseline(size int) {
	if m == nil {
		return
	}
	m.BaselineSize.Observe(float64(size))
}

// SessionOpened and SessionClosed track the open session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}

var callEndReasons = map[string]bool{
	"completed": true,
	"cancelled": true,
	"missed":    true,
	"declined":  true,
	"failed":    true,
	"timeout":   true,
}

// ObserveCallJoined counts an issued call session.
func (m *Metrics) ObserveCallJoined() {
	if m == nil {
		return
	}
	m.CallsJoined.Inc()
}

// ObserveCallEnded counts a call completion. Unknown reasons are grouped
// under "other" to keep the label set bounded.
func (m *Metrics) ObserveCallEnded(reason string) {
	if m == nil {
		return
	}
	reason = strings.ToLower(strings.TrimSpace(reason))
	if !callEndReasons[reason] {
		reason = "other"
	}
	m.CallsEnded.WithLabelValues(reason).Inc()
}
