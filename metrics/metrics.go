// Package metrics exposes Prometheus counters for dispatch outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the dispatcher's counters. A nil *Metrics is valid and
// records nothing, so the dispatcher can run unobserved.
type Metrics struct {
	requests  *prometheus.CounterVec
	errors    *prometheus.CounterVec
	toolCalls *prometheus.CounterVec
}

// New creates and registers the dispatch metrics with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agora",
			Name:      "dispatch_requests_total",
			Help:      "Dispatched requests by method.",
		}, []string{"method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agora",
			Name:      "dispatch_errors_total",
			Help:      "Error envelopes by error kind.",
		}, []string{"kind"}),
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agora",
			Name:      "tool_calls_total",
			Help:      "Tool handler invocations by tool name.",
		}, []string{"tool"}),
	}
}

// ObserveRequest counts one dispatched request.
func (m *Metrics) ObserveRequest(method string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method).Inc()
}

// ObserveError counts one error envelope.
func (m *Metrics) ObserveError(kind string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(kind).Inc()
}

// ObserveToolCall counts one tool handler invocation.
func (m *Metrics) ObserveToolCall(tool string) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool).Inc()
}
