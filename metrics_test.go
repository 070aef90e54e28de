package jobdispatch

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg, prometheus.Labels{"service": "test"})

	m.IncSubmitted()
	m.IncSubmitted()
	m.IncFinished()
	m.SetInFlight(1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.finished))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inFlight))

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"jobdispatch_jobs_submitted_total",
		"jobdispatch_jobs_finished_total",
		"jobdispatch_jobs_in_flight",
	}, names)
}

func TestPrometheusMetricsUnregistered(t *testing.T) {
	m := NewPrometheusMetrics(nil, nil)
	m.IncFinished()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.finished))
}

func TestCadenceFillDefaults(t *testing.T) {
	var c CadencePolicy
	c.fillDefaults()
	assert.Equal(t, DefaultCadence(), c)

	c = CadencePolicy{Initial: time.Minute, Max: time.Second, Precision: 3}
	c.fillDefaults()
	assert.Equal(t, time.Minute, c.Max, "max never drops below initial")
	assert.Equal(t, 3, c.Precision)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Idle", Idle.String())
	assert.Equal(t, "Running", Running.String())
	assert.Equal(t, "Unknown", Status(42).String())
}
