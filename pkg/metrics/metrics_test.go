package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestStepsAndToolCounters(t *testing.T) {
	m := New()
	m.StepTaken()
	m.StepTaken()
	m.ToolCalled("list_files", false)
	m.ToolCalled("list_files", true)
	m.Replanned()
	m.BudgetExhausted()

	require.Equal(t, float64(2), testutil.ToFloat64(m.stepsTotal))
	require.Equal(t, float64(2), testutil.ToFloat64(m.toolCallsTotal.WithLabelValues("list_files")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.toolFailuresTotal.WithLabelValues("list_files")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.replansTotal))
	require.Equal(t, float64(1), testutil.ToFloat64(m.budgetExhausted))
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.StepTaken()
		m.ToolCalled("x", true)
		m.Replanned()
		m.BudgetExhausted()
		m.RegistryLookup("knowledge", 0.001, true)
	})
}

func TestRegistryLookupRecordsHit(t *testing.T) {
	m := New()
	m.RegistryLookup("knowledge", 0.002, true)
	m.RegistryLookup("datasource", 0.001, false)
	require.Equal(t, float64(1), testutil.ToFloat64(m.registryHits.WithLabelValues("knowledge")))
	require.Equal(t, float64(0), testutil.ToFloat64(m.registryHits.WithLabelValues("datasource")))
}
