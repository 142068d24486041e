// Package progress exposes separation progress as Prometheus metrics
// and, optionally, a structured JSON event stream for a controlling
// process to consume.
package progress

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector the separation pipeline
// updates. A nil *Metrics is a valid no-op receiver, so callers that
// don't want metrics can pass nil through without branching.
type Metrics struct {
	chunksProcessed *prometheus.CounterVec
	chunksTotal     *prometheus.GaugeVec
	progressRatio   *prometheus.GaugeVec
	separationsTotal *prometheus.CounterVec
	separationErrors *prometheus.CounterVec
	activeSeparations prometheus.Gauge
}

// NewMetrics registers and returns the separation pipeline's collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		chunksProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stemsep_chunks_processed_total",
				Help: "Total chunks processed, by separator variant",
			},
			[]string{"variant"},
		),
		chunksTotal: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stemsep_chunks_total",
				Help: "Total chunks in the current separation job, by variant",
			},
			[]string{"variant"},
		),
		progressRatio: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stemsep_progress_ratio",
				Help: "Fractional progress [0,1] of the current separation job, by variant",
			},
			[]string{"variant"},
		),
		separationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stemsep_separations_total",
				Help: "Total completed separation jobs, by variant",
			},
			[]string{"variant"},
		),
		separationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stemsep_separation_errors_total",
				Help: "Total separation job failures, by variant and error class",
			},
			[]string{"variant", "class"},
		),
		activeSeparations: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "stemsep_active_separations",
				Help: "Number of separation jobs currently in flight",
			},
		),
	}
}

// RecordChunk increments the processed-chunk counter and updates the
// fractional progress gauge for variant.
func (m *Metrics) RecordChunk(variant string, totalChunks int, ratio float64) {
	if m == nil {
		return
	}
	m.chunksProcessed.WithLabelValues(variant).Inc()
	m.chunksTotal.WithLabelValues(variant).Set(float64(totalChunks))
	m.progressRatio.WithLabelValues(variant).Set(ratio)
}

// RecordStart increments the active-separations gauge.
func (m *Metrics) RecordStart() {
	if m == nil {
		return
	}
	m.activeSeparations.Inc()
}

// RecordComplete decrements active-separations and increments the
// completed-jobs counter for variant.
func (m *Metrics) RecordComplete(variant string) {
	if m == nil {
		return
	}
	m.activeSeparations.Dec()
	m.separationsTotal.WithLabelValues(variant).Inc()
}

// RecordError decrements active-separations and records the failure
// under variant/class (typically an errs sentinel's string form).
func (m *Metrics) RecordError(variant, class string) {
	if m == nil {
		return
	}
	m.activeSeparations.Dec()
	m.separationErrors.WithLabelValues(variant, class).Inc()
}
