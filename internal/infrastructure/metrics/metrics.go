package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "predictor"

// Metrics collects prediction telemetry for Prometheus
type Metrics struct {
	requests           *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	predictions        *prometheus.CounterVec
	inferenceDuration  prometheus.Histogram
}

// New creates the prediction metrics and registers them with reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Prediction requests by terminal outcome.",
		}, []string{"outcome"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Rejected prediction requests by validation reason.",
		}, []string{"reason"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Served predictions by predicted label.",
		}, []string{"label", "cached"}),
		inferenceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Time spent in model inference.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.validationFailures, m.predictions, m.inferenceDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveOutcome implements usecase.Recorder
func (m *Metrics) ObserveOutcome(outcome string) {
	m.requests.WithLabelValues(outcome).Inc()
}

// ObserveValidationFailure implements usecase.Recorder
func (m *Metrics) ObserveValidationFailure(reason string) {
	m.validationFailures.WithLabelValues(reason).Inc()
}

// ObservePrediction implements usecase.Recorder
func (m *Metrics) ObservePrediction(label string, cached bool) {
	m.predictions.WithLabelValues(label, strconv.FormatBool(cached)).Inc()
}

// ObserveInferenceDuration implements usecase.Recorder
func (m *Metrics) ObserveInferenceDuration(d time.Duration) {
	m.inferenceDuration.Observe(d.Seconds())
}
