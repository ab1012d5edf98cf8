package metrics

import (
	"time"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rc"

// ClassifierMetrics records per-document outcomes of the classification flow.
type ClassifierMetrics struct {
	predictionsTotal   *prometheus.CounterVec
	extractionFailures *prometheus.CounterVec
	duration           *prometheus.HistogramVec
	service            string
}

func NewClassifierMetrics(registerer prometheus.Registerer, service string) *ClassifierMetrics {
	predictionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "predictions_total",
			Help:      "Total predictions by category.",
		},
		[]string{"service", "category"},
	)
	extractionFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extractor",
			Name:      "failures_total",
			Help:      "Total documents without extractable text by format.",
		},
		[]string{"service", "format"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "duration_seconds",
			Help:      "Time spent normalizing, vectorizing and predicting one text.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"service"},
	)

	if registerer != nil {
		registerer.MustRegister(predictionsTotal, extractionFailures, duration)
	}

	return &ClassifierMetrics{
		predictionsTotal:   predictionsTotal,
		extractionFailures: extractionFailures,
		duration:           duration,
		service:            service,
	}
}

func (m *ClassifierMetrics) ObserveExtractionFailure(format domain.DocumentFormat) {
	if format == "" {
		format = domain.FormatUnknown
	}
	m.extractionFailures.WithLabelValues(m.service, string(format)).Inc()
}

func (m *ClassifierMetrics) ObservePrediction(category string, elapsed time.Duration) {
	m.predictionsTotal.WithLabelValues(m.service, category).Inc()
	if elapsed >= 0 {
		m.duration.WithLabelValues(m.service).Observe(elapsed.Seconds())
	}
}
