// Package metrics holds the Prometheus collectors for the verification
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	OCRAttempts       *prometheus.CounterVec
	OCRBestScore      prometheus.Histogram
	Verifications     *prometheus.CounterVec
	ComparisonResults *prometheus.CounterVec
	RateLimited       *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		OCRAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "doccheck_ocr_attempts_total",
			Help: "OCR attempts by profile and outcome",
		}, []string{"profile", "outcome"}),
		OCRBestScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "doccheck_ocr_best_score",
			Help:    "Required passport fields found by the selected OCR attempt",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		}),
		Verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "doccheck_verifications_total",
			Help: "Document checks by outcome",
		}, []string{"outcome"}),
		ComparisonResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "doccheck_comparisons_total",
			Help: "Field comparisons by field and status",
		}, []string{"field", "status"}),
		RateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Name: "doccheck_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}, []string{"route"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "doccheck_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) ObserveOCRAttempt(profile, outcome string) {
	if m == nil {
		return
	}
	m.OCRAttempts.WithLabelValues(profile, outcome).Inc()
}

func (m *Metrics) ObserveBestScore(score int) {
	if m == nil {
		return
	}
	m.OCRBestScore.Observe(float64(score))
}

func (m *Metrics) IncrementVerifications(outcome string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveComparison(field, status string) {
	if m == nil {
		return
	}
	m.ComparisonResults.WithLabelValues(field, status).Inc()
}

func (m *Metrics) IncrementRateLimited(route string) {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(route).Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}
