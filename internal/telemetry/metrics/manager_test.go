package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()
	require.NotNil(t, m)

	m.CounterClientCalls.With(prometheus.Labels{"method": "GET", "outcome": "ok"}).Inc()
	m.CounterClientAttempts.WithLabelValues("GET").Add(3)
	m.CounterLogins.Inc()
	m.HistogramClientCallDuration.WithLabelValues("GET", "ok").Observe(0.2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterClientCalls.WithLabelValues("GET", "ok")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.CounterClientAttempts.WithLabelValues("GET")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterLogins))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["chizen_test_client_calls"])
	assert.True(t, names["chizen_test_client_attempts"])
	assert.True(t, names["chizen_test_logins"])
	assert.True(t, names["chizen_test_client_call_duration_seconds"])
}

func TestNewManager_TwoRegistries(t *testing.T) {
	// every manager registers into its own registry, so this must not panic
	assert.NotPanics(t, func() {
		NewTestManager()
		NewTestManager()
	})
}

func TestSetupPrometheus(t *testing.T) {
	reg := SetupPrometheus(prometheus.NewCounter(prometheus.CounterOpts{
		Name: "extra_counter",
		Help: "extra",
	}))
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
