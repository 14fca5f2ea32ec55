package metrics

import "github.com/prometheus/client_golang/prometheus"

// DispatcherMetrics exposes counters/histograms for the query cache and its network calls.
type DispatcherMetrics struct {
	cacheLookups     *prometheus.CounterVec
	fetchTotal       *prometheus.CounterVec
	mutationTotal    *prometheus.CounterVec
	invalidatedTotal prometheus.Counter
	discardedTotal   *prometheus.CounterVec
	requestLatency   *prometheus.HistogramVec
}

func NewDispatcherMetrics(reg prometheus.Registerer) *DispatcherMetrics {
	m := &DispatcherMetrics{
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic_console",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by endpoint and result (hit, miss, stale, shared)",
		}, []string{"endpoint", "result"}),
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic_console",
			Subsystem: "dispatcher",
			Name:      "fetch_total",
			Help:      "Network reads by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		mutationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic_console",
			Subsystem: "dispatcher",
			Name:      "mutation_total",
			Help:      "Network writes by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		invalidatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic_console",
			Subsystem: "cache",
			Name:      "invalidated_entries_total",
			Help:      "Cache entries marked stale by mutations",
		}),
		discardedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic_console",
			Subsystem: "cache",
			Name:      "discarded_responses_total",
			Help:      "Responses dropped because a newer request or a cache clear superseded them",
		}, []string{"endpoint"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic_console",
			Subsystem: "dispatcher",
			Name:      "request_latency_seconds",
			Help:      "Latency of backend requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "method"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.cacheLookups, m.fetchTotal, m.mutationTotal, m.invalidatedTotal, m.discardedTotal, m.requestLatency)
	return m
}

func (m *DispatcherMetrics) ObserveLookup(endpoint, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(endpoint, result).Inc()
}

func (m *DispatcherMetrics) ObserveFetch(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(endpoint, outcome).Inc()
}

func (m *DispatcherMetrics) ObserveMutation(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.mutationTotal.WithLabelValues(endpoint, outcome).Inc()
}

func (m *DispatcherMetrics) ObserveInvalidated(entries int) {
	if m == nil || entries <= 0 {
		return
	}
	m.invalidatedTotal.Add(float64(entries))
}

func (m *DispatcherMetrics) ObserveDiscarded(endpoint string) {
	if m == nil {
		return
	}
	m.discardedTotal.WithLabelValues(endpoint).Inc()
}

func (m *DispatcherMetrics) ObserveLatency(endpoint, method string, seconds float64) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(endpoint, method).Observe(seconds)
}
