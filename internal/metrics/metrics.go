// Package metrics exposes Prometheus metrics for tool calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics for MCP tool calls.
//
// Each Metrics owns its registry, so several instances (one per test, for
// example) never collide on registration.
//
// Metrics:
//   - localops_tool_calls_total{tool,outcome} - Count of tool calls by outcome
//   - localops_tool_call_duration_seconds{tool} - Histogram of tool call latency
type Metrics struct {
	registry *prometheus.Registry

	ToolCallsTotal   *prometheus.CounterVec
	ToolCallDuration *prometheus.HistogramVec
}

// New creates and registers the tool call metrics together with the Go
// runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		ToolCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "localops_tool_calls_total",
				Help: "Total number of MCP tool calls",
			},
			[]string{"tool", "outcome"}, // "success" or "error"
		),
		ToolCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "localops_tool_call_duration_seconds",
				Help:    "Duration of MCP tool calls in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
			},
			[]string{"tool"},
		),
	}
}

// ObserveToolCall records one finished tool call.
func (m *Metrics) ObserveToolCall(tool string, isError bool, duration time.Duration) {
	outcome := "success"
	if isError {
		outcome = "error"
	}

	m.ToolCallsTotal.WithLabelValues(tool, outcome).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
