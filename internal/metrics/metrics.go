// Package metrics provides Prometheus metrics for the analysis pipeline
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline stages timed by StageDuration.
const (
	StageLoad     = "load"
	StageDetect   = "detect"
	StageOCR      = "ocr"
	StageQuantity = "quantity"
	StageExport   = "export"
)

// Metrics holds the pipeline collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry prometheus.Gatherer

	PagesProcessed   prometheus.Counter
	ElementsDetected *prometheus.CounterVec
	OCRFailures      prometheus.Counter
	StageDuration    *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg. gatherer is used by
// WriteTextfile and is usually the same registry.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: gatherer,

		PagesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "aufmass_pages_processed_total",
			Help: "Total number of drawing pages run through detection",
		}),

		ElementsDetected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aufmass_elements_detected_total",
				Help: "Total number of building elements detected",
			},
			[]string{"kind"},
		),

		OCRFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "aufmass_ocr_failures_total",
			Help: "Total number of pages whose text extraction failed",
		}),

		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aufmass_stage_duration_seconds",
				Help:    "Time spent per pipeline stage",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
			[]string{"stage"},
		),
	}
}

// RecordPage counts one processed page.
func (m *Metrics) RecordPage() {
	if m == nil {
		return
	}
	m.PagesProcessed.Inc()
}

// RecordElements adds detected element counts keyed by kind name.
func (m *Metrics) RecordElements(counts map[string]int) {
	if m == nil {
		return
	}
	for kind, n := range counts {
		m.ElementsDetected.WithLabelValues(kind).Add(float64(n))
	}
}

// RecordOCRFailure counts one page whose OCR failed.
func (m *Metrics) RecordOCRFailure() {
	if m == nil {
		return
	}
	m.OCRFailures.Inc()
}

// ObserveStage records the duration of one stage run.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Time starts a stage timer; call the returned func when the stage ends.
func (m *Metrics) Time(stage string) func() {
	start := time.Now()
	return func() { m.ObserveStage(stage, time.Since(start)) }
}

// WriteTextfile dumps all metrics in the text exposition format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
