package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	errorsTotal        *prometheus.CounterVec
	latency            *prometheus.HistogramVec
	activeVariant      *prometheus.GaugeVec
	playersLoaded      *prometheus.GaugeVec
	modelLoadFailures  prometheus.Counter
	cacheLookups       *prometheus.CounterVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg. A nil reg leaves the
// collectors unregistered, which is what tests want.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "baseball_predictions_total",
				Help: "Total number of matchup predictions served",
			},
			[]string{"variant", "cached"},
		),
		validationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "baseball_validation_failures_total",
				Help: "Rejected matchup requests by first offending field",
			},
			[]string{"field"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "baseball_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "baseball_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
			[]string{"operation"},
		),
		activeVariant: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "baseball_predictor_active",
				Help: "1 for the predictor variant selected at startup",
			},
			[]string{"variant"},
		),
		playersLoaded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "baseball_players_loaded",
				Help: "Players with reference aggregates, by role",
			},
			[]string{"role"},
		),
		modelLoadFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "baseball_model_load_failures_total",
				Help: "Model artifact load failures at startup",
			},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "baseball_cache_lookups_total",
				Help: "Prediction cache lookups by result",
			},
			[]string{"result"},
		),
	}
	if reg != nil {
		reg.MustRegister(
			r.predictions, r.validationFailures, r.errorsTotal, r.latency,
			r.activeVariant, r.playersLoaded, r.modelLoadFailures, r.cacheLookups,
		)
	}
	return r
}

// RecordPrediction counts a served prediction.
func (r *Recorder) RecordPrediction(variant string, cached bool) {
	c := "false"
	if cached {
		c = "true"
	}
	r.predictions.WithLabelValues(variant, c).Inc()
}

// RecordValidationFailure counts a rejected request.
func (r *Recorder) RecordValidationFailure(field string) {
	r.validationFailures.WithLabelValues(field).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// SetActiveVariant marks variant as the one serving requests.
func (r *Recorder) SetActiveVariant(variant string) {
	r.activeVariant.Reset()
	r.activeVariant.WithLabelValues(variant).Set(1)
}

// SetPlayersLoaded records how many players of role have aggregates.
func (r *Recorder) SetPlayersLoaded(role string, n int) {
	r.playersLoaded.WithLabelValues(role).Set(float64(n))
}

// RecordModelLoadFailure counts a failed artifact load.
func (r *Recorder) RecordModelLoadFailure() {
	r.modelLoadFailures.Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func (r *Recorder) RecordCacheLookup(hit bool) {
	if hit {
		r.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	r.cacheLookups.WithLabelValues("miss").Inc()
}
