package resolver

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ResolverMetrics tracks Prometheus metrics for namespace resolution.
//
// All metrics use the "resolvefs_" prefix. Methods handle nil receiver
// gracefully, so a nil *ResolverMetrics acts as a no-op (zero overhead when
// metrics are disabled).
type ResolverMetrics struct {
	// ResolutionDuration tracks time spent per resolution operation.
	// Labels: op=[resolve, resolve_path, resolve_junction]
	ResolutionDuration *prometheus.HistogramVec

	// ResolutionsTotal counts resolutions by operation and outcome.
	// Labels: op, result (ok or an ErrorCode name)
	ResolutionsTotal *prometheus.CounterVec

	// GateWaitDuration tracks time spent waiting on the admission gate.
	GateWaitDuration prometheus.Histogram

	// DegradedAttributesTotal counts successful resolutions whose
	// attribute fetch failed.
	DegradedAttributesTotal prometheus.Counter
}

var (
	resolverMetricsOnce     sync.Once
	resolverMetricsInstance *ResolverMetrics
)

// NewResolverMetrics creates and registers resolver Prometheus metrics.
//
// If registerer is nil, prometheus.DefaultRegisterer is used. The function
// is idempotent; repeated calls return the same instance.
func NewResolverMetrics(registerer prometheus.Registerer) *ResolverMetrics {
	resolverMetricsOnce.Do(func() {
		if registerer == nil {
			registerer = prometheus.DefaultRegisterer
		}

		m := &ResolverMetrics{
			ResolutionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "resolvefs_resolution_duration_seconds",
				Help:    "Time spent resolving a handle, path or junction.",
				Buckets: prometheus.ExponentialBuckets(0.00005, 2, 16),
			}, []string{"op"}),
			ResolutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "resolvefs_resolutions_total",
				Help: "Total resolutions by operation and outcome.",
			}, []string{"op", "result"}),
			GateWaitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "resolvefs_gate_wait_duration_seconds",
				Help:    "Time spent waiting for an admission gate slot.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			}),
			DegradedAttributesTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "resolvefs_degraded_attributes_total",
				Help: "Successful resolutions whose attribute fetch failed.",
			}),
		}

		registerer.MustRegister(
			m.ResolutionDuration,
			m.ResolutionsTotal,
			m.GateWaitDuration,
			m.DegradedAttributesTotal,
		)
		resolverMetricsInstance = m
	})
	return resolverMetricsInstance
}

// ObserveResolution records the duration and outcome of one operation.
func (m *ResolverMetrics) ObserveResolution(op string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = CodeOf(err).String()
	}
	m.ResolutionDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	m.ResolutionsTotal.WithLabelValues(op, result).Inc()
}

// ObserveGateWait records time spent waiting on the admission gate.
func (m *ResolverMetrics) ObserveGateWait(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.GateWaitDuration.Observe(elapsed.Seconds())
}

// IncDegradedAttributes counts a degraded attribute result.
func (m *ResolverMetrics) IncDegradedAttributes() {
	if m == nil {
		return
	}
	m.DegradedAttributesTotal.Inc()
}
