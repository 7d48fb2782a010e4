// Package metrics defines the observability records produced by availability
// evaluations and the sinks that consume them. Implementations live in
// infra/metrics.
package metrics

import "time"

// Outcome classifies what happened to one candidate (plan, date) pair.
type Outcome string

const (
	OutcomeOpen       Outcome = "open"
	OutcomeWeekday    Outcome = "weekday"
	OutcomePastWindow Outcome = "past_window"
	OutcomeBlackout   Outcome = "blackout"
	OutcomeClosed     Outcome = "closed"
)

// Outcomes lists every Outcome in a stable order.
var Outcomes = []Outcome{OutcomeOpen, OutcomeWeekday, OutcomePastWindow, OutcomeBlackout, OutcomeClosed}

// EvaluationStats summarises one evaluation call.
type EvaluationStats struct {
	ID           string
	CategoryType string
	Plans        int // plans that matched the category and range
	Days         map[Outcome]int
	Slots        int
	Duration     time.Duration
	Time         time.Time
}

// Candidates returns the number of candidate dates visited.
func (s EvaluationStats) Candidates() int {
	n := 0
	for _, v := range s.Days {
		n += v
	}
	return n
}

// MetricsSink records evaluation statistics.
type MetricsSink interface {
	RecordEvaluation(stats EvaluationStats) error
}

// ValidationFailure describes a request rejected before evaluation.
type ValidationFailure struct {
	CategoryType string
	Reason       string
	Time         time.Time
}

// ValidationRecorder is implemented by sinks able to count rejected requests.
type ValidationRecorder interface {
	RecordValidationFailure(ev ValidationFailure) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordEvaluation(EvaluationStats) error          { return nil }
func (NopSink) RecordValidationFailure(ValidationFailure) error { return nil }
