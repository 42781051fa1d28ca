/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/acronis/go-crptkit/internal/libinfo"
)

// MetricsCollector is an interface for collecting metrics of gate admissions.
type MetricsCollector interface {
	// ObserveAcquireWait observes the total time a caller was blocked in a successful Acquire.
	ObserveAcquireWait(waitTime time.Duration)

	// IncAdmitted increments the counter of successful admissions.
	IncAdmitted()

	// IncInterrupted increments the counter of Acquire calls cancelled while waiting.
	IncInterrupted()
}

// NullMetricsCollector is a no-op implementation of MetricsCollector.
type NullMetricsCollector struct{}

// ObserveAcquireWait does nothing.
func (NullMetricsCollector) ObserveAcquireWait(waitTime time.Duration) {}

// IncAdmitted does nothing.
func (NullMetricsCollector) IncAdmitted() {}

// IncInterrupted does nothing.
func (NullMetricsCollector) IncInterrupted() {}

// PrometheusMetricsCollector is a Prometheus metrics collector for gate admissions.
type PrometheusMetricsCollector struct {
	// AcquireWaitDurations is a histogram of times callers spent blocked in Acquire.
	AcquireWaitDurations prometheus.Histogram

	// AdmittedTotal is a counter of successful admissions.
	AdmittedTotal prometheus.Counter

	// InterruptedTotal is a counter of Acquire calls cancelled while waiting.
	InterruptedTotal prometheus.Counter
}

var _ MetricsCollector = (*PrometheusMetricsCollector)(nil)

// NewPrometheusMetricsCollector creates a new Prometheus metrics collector.
func NewPrometheusMetricsCollector(namespace string) *PrometheusMetricsCollector {
	constLabels := libinfo.AddPrometheusLibVersionLabel(nil)
	return &PrometheusMetricsCollector{
		AcquireWaitDurations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "rate_limit_acquire_wait_duration_seconds",
			Help:        "A histogram of times callers spent blocked in gate acquire.",
			Buckets:     []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			ConstLabels: constLabels,
		}),
		AdmittedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "rate_limit_admitted_total",
			Help:        "A counter of successful gate admissions.",
			ConstLabels: constLabels,
		}),
		InterruptedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "rate_limit_interrupted_total",
			Help:        "A counter of gate acquires cancelled while waiting.",
			ConstLabels: constLabels,
		}),
	}
}

// MustRegister registers the Prometheus metrics.
func (p *PrometheusMetricsCollector) MustRegister() {
	prometheus.MustRegister(p.AcquireWaitDurations, p.AdmittedTotal, p.InterruptedTotal)
}

// Unregister the Prometheus metrics.
func (p *PrometheusMetricsCollector) Unregister() {
	prometheus.Unregister(p.AcquireWaitDurations)
	prometheus.Unregister(p.AdmittedTotal)
	prometheus.Unregister(p.InterruptedTotal)
}

// ObserveAcquireWait observes the total time a caller was blocked in a successful Acquire.
func (p *PrometheusMetricsCollector) ObserveAcquireWait(waitTime time.Duration) {
	p.AcquireWaitDurations.Observe(waitTime.Seconds())
}

// IncAdmitted increments the counter of successful admissions.
func (p *PrometheusMetricsCollector) IncAdmitted() {
	p.AdmittedTotal.Inc()
}

// IncInterrupted increments the counter of Acquire calls cancelled while waiting.
func (p *PrometheusMetricsCollector) IncInterrupted() {
	p.InterruptedTotal.Inc()
}
