// Package metrics exposes Prometheus metrics for workbook conversions.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JonMunkholm/labnorm/internal/core"
)

// Conversion outcome label values.
const (
	StatusSuccess  = "success"
	StatusPartial  = "partial"
	StatusFailed   = "failed"
	StatusRejected = "rejected"
)

// ConversionMetrics records what conversions produced. Issue counters are
// labelled by the user-facing error code so cardinality stays bounded.
type ConversionMetrics struct {
	conversionsTotal   *prometheus.CounterVec
	conversionDuration *prometheus.HistogramVec
	documentsTotal     *prometheus.CounterVec
	sheetErrorsTotal   *prometheus.CounterVec
	warningsTotal      *prometheus.CounterVec
	activeConversions  prometheus.Gauge
}

// NewConversionMetrics creates the metrics and registers them with registry.
func NewConversionMetrics(registry prometheus.Registerer) (*ConversionMetrics, error) {
	m := &ConversionMetrics{
		conversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labnorm_conversions_total",
				Help: "Total number of workbook conversions",
			},
			[]string{"lab", "status"}, // status: success, partial, failed, rejected
		),
		conversionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "labnorm_conversion_duration_seconds",
				Help:    "Time taken to convert one workbook",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"lab"},
		),
		documentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labnorm_documents_total",
				Help: "Total number of accepted Events",
			},
			[]string{"lab"},
		),
		sheetErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labnorm_dropped_total",
				Help: "Sheets and date groups dropped from conversions",
			},
			[]string{"code"},
		),
		warningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labnorm_warnings_total",
				Help: "Non-fatal conversion warnings",
			},
			[]string{"code"},
		),
		activeConversions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "labnorm_active_conversions",
				Help: "Conversions currently in progress",
			},
		),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ConversionMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.conversionsTotal,
		m.conversionDuration,
		m.documentsTotal,
		m.sheetErrorsTotal,
		m.warningsTotal,
		m.activeConversions,
	}
}

// Describe implements prometheus.Collector.
func (m *ConversionMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *ConversionMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

// Start marks a conversion as in progress. The returned func must be
// called exactly once when it ends.
func (m *ConversionMetrics) Start() func() {
	m.activeConversions.Inc()
	return m.activeConversions.Dec
}

// Observe records the outcome of one Convert call.
func (m *ConversionMetrics) Observe(res *core.Result, err error) {
	if err != nil || res == nil {
		m.conversionsTotal.WithLabelValues("", failureStatus(err)).Inc()
		return
	}

	lab := res.Lab
	m.conversionsTotal.WithLabelValues(lab, Status(res)).Inc()
	m.conversionDuration.WithLabelValues(lab).Observe(res.Duration.Seconds())
	m.documentsTotal.WithLabelValues(lab).Add(float64(len(res.Documents)))
	for _, e := range res.Errors {
		m.sheetErrorsTotal.WithLabelValues(core.MapError(e).Code).Inc()
	}
	for _, w := range res.Warnings {
		m.warningsTotal.WithLabelValues(core.MapError(w).Code).Inc()
	}
}

// Status classifies a completed conversion.
func Status(res *core.Result) string {
	switch {
	case len(res.Documents) == 0:
		return StatusFailed
	case len(res.Errors) > 0:
		return StatusPartial
	default:
		return StatusSuccess
	}
}

func failureStatus(err error) string {
	if errors.Is(err, core.ErrTooManyConversions) {
		return StatusRejected
	}
	return StatusFailed
}
