package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/planavail/core/metrics"
)

// PromSink records availability evaluations in Prometheus metrics.
type PromSink struct {
	evaluations *prometheus.CounterVec
	days        *prometheus.CounterVec
	slots       *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	rejected    *prometheus.CounterVec
	labels      *categoryLabels
}

// NewPromSink registers availability metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused. cfg bounds the
// category_type label values.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_evaluations_total",
			Help: "Total number of availability evaluations",
		}, []string{"category_type"}),
		days: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_days_total",
			Help: "Candidate days visited, by outcome",
		}, []string{"category_type", "outcome"}),
		slots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_slots_total",
			Help: "Open slots returned",
		}, []string{"category_type"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "availability_evaluation_seconds",
			Help:    "Time spent evaluating one request",
			Buckets: prometheus.DefBuckets,
		}, []string{"category_type"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_validation_failures_total",
			Help: "Requests rejected before evaluation",
		}, []string{"category_type"}),
		labels: newCategoryLabels(cfg),
	}

	var err error
	if s.evaluations, err = register(reg, s.evaluations); err != nil {
		return nil, err
	}
	if s.days, err = register(reg, s.days); err != nil {
		return nil, err
	}
	if s.slots, err = register(reg, s.slots); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, s.latency); err != nil {
		return nil, err
	}
	if s.rejected, err = register(reg, s.rejected); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordEvaluation updates the counters and latency histogram for one evaluation.
func (s *PromSink) RecordEvaluation(st coremetrics.EvaluationStats) error {
	category := s.labels.label(st.CategoryType, true)
	s.evaluations.WithLabelValues(category).Inc()
	for outcome, n := range st.Days {
		if n > 0 {
			s.days.WithLabelValues(category, string(outcome)).Add(float64(n))
		}
	}
	s.slots.WithLabelValues(category).Add(float64(st.Slots))
	s.latency.WithLabelValues(category).Observe(st.Duration.Seconds())
	return nil
}

// RecordValidationFailure counts a rejected request.
func (s *PromSink) RecordValidationFailure(ev coremetrics.ValidationFailure) error {
	s.rejected.WithLabelValues(s.labels.label(ev.CategoryType, false)).Inc()
	return nil
}
