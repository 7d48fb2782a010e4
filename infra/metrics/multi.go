package metrics

import (
	"errors"
	"io"

	coremetrics "github.com/kilianp07/planavail/core/metrics"
)

// MultiSink fanouts evaluation statistics to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordEvaluation forwards the record to every sink. A failing sink does not
// stop the others; the errors are joined.
func (m *MultiSink) RecordEvaluation(st coremetrics.EvaluationStats) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordEvaluation(st); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordValidationFailure forwards rejections to the sinks that count them.
func (m *MultiSink) RecordValidationFailure(ev coremetrics.ValidationFailure) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ValidationRecorder); ok {
			if err := rec.RecordValidationFailure(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes the sinks that hold connections.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
