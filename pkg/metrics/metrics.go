// Package metrics provides Prometheus instrumentation for the Agent
// Loop and the two read-mostly registries.
//
// Grounded on github.com/kadirpekel/hector's pkg/observability.Metrics
// (a struct of CounterVec/HistogramVec fields registered against a
// private prometheus.Registry), reduced to the counters and histograms
// this module's components actually emit — no tracing, no HTTP/session/
// RAG metrics, since those subsystems were cut (see DESIGN.md).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every collector the Agent Loop and registries report
// to. A nil *Metrics is valid and every method becomes a no-op, so
// instrumentation is optional at construction time.
type Metrics struct {
	registry *prometheus.Registry

	stepsTotal       prometheus.Counter
	toolCallsTotal   *prometheus.CounterVec
	toolFailuresTotal *prometheus.CounterVec
	replansTotal     prometheus.Counter
	budgetExhausted  prometheus.Counter

	registryLookups     *prometheus.CounterVec
	registryHits        *prometheus.CounterVec
	registryLookupSeconds *prometheus.HistogramVec
}

// New creates a Metrics instance registered against its own registry
// (never the global default, so multiple agent runs in one process
// don't collide on collector registration).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		stepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agentcore",
			Subsystem: "agentloop",
			Name:      "steps_total",
			Help:      "Total think/act steps executed across all runs.",
		}),
		toolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentcore",
			Subsystem: "agentloop",
			Name:      "tool_calls_total",
			Help:      "Total tool invocations, by tool name.",
		}, []string{"tool"}),
		toolFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentcore",
			Subsystem: "agentloop",
			Name:      "tool_failures_total",
			Help:      "Total failed tool invocations, by tool name.",
		}, []string{"tool"}),
		replansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agentcore",
			Subsystem: "agentloop",
			Name:      "replans_total",
			Help:      "Total replans triggered by tool failures.",
		}),
		budgetExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agentcore",
			Subsystem: "agentloop",
			Name:      "budget_exhausted_total",
			Help:      "Total runs that exited due to max_steps exhaustion.",
		}),
		registryLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentcore",
			Subsystem: "registry",
			Name:      "lookups_total",
			Help:      "Total relevance lookups, by registry.",
		}, []string{"registry"}),
		registryHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentcore",
			Subsystem: "registry",
			Name:      "hits_total",
			Help:      "Total lookups that returned at least one item, by registry.",
		}, []string{"registry"}),
		registryLookupSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agentcore",
			Subsystem: "registry",
			Name:      "lookup_seconds",
			Help:      "Relevance lookup latency, by registry.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"registry"}),
	}

	reg.MustRegister(
		m.stepsTotal, m.toolCallsTotal, m.toolFailuresTotal, m.replansTotal,
		m.budgetExhausted, m.registryLookups, m.registryHits, m.registryLookupSeconds,
	)
	return m
}

// Registry exposes the private registry for a metrics HTTP handler
// (wired in cmd/agentcore, outside the core per spec §6.4).
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) StepTaken() {
	if m == nil {
		return
	}
	m.stepsTotal.Inc()
}

func (m *Metrics) ToolCalled(tool string, failed bool) {
	if m == nil {
		return
	}
	m.toolCallsTotal.WithLabelValues(tool).Inc()
	if failed {
		m.toolFailuresTotal.WithLabelValues(tool).Inc()
	}
}

func (m *Metrics) Replanned() {
	if m == nil {
		return
	}
	m.replansTotal.Inc()
}

func (m *Metrics) BudgetExhausted() {
	if m == nil {
		return
	}
	m.budgetExhausted.Inc()
}

// RegistryLookup records one relevance lookup against a named registry
// ("knowledge" or "datasource"), its latency, and whether it returned
// results.
func (m *Metrics) RegistryLookup(registry string, seconds float64, hit bool) {
	if m == nil {
		return
	}
	m.registryLookups.WithLabelValues(registry).Inc()
	m.registryLookupSeconds.WithLabelValues(registry).Observe(seconds)
	if hit {
		m.registryHits.WithLabelValues(registry).Inc()
	}
}
