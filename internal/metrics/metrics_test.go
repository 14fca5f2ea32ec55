package metrics_test

import (
	"testing"

	"github.com/jrsteele09/clinic-console/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestDispatcherMetricsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewDispatcherMetrics(reg)

	m.ObserveLookup("getPatients", "hit")
	m.ObserveLookup("getPatients", "hit")
	m.ObserveLookup("getPatients", "miss")
	m.ObserveFetch("getPatients", "ok")
	m.ObserveMutation("createPatient", "error")
	m.ObserveInvalidated(3)
	m.ObserveInvalidated(0)
	m.ObserveDiscarded("getPatients")
	m.ObserveLatency("getPatients", "GET", 0.02)

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 7, count)

	lookups, err := testutil.GatherAndCount(reg, "clinic_console_cache_lookups_total")
	require.NoError(t, err)
	require.Equal(t, 2, lookups)
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *metrics.DispatcherMetrics
	require.NotPanics(t, func() {
		m.ObserveLookup("x", "hit")
		m.ObserveFetch("x", "ok")
		m.ObserveMutation("x", "ok")
		m.ObserveInvalidated(1)
		m.ObserveDiscarded("x")
		m.ObserveLatency("x", "GET", 1)
	})
}
