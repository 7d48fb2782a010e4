package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/planavail/core/blackout"
	"github.com/kilianp07/planavail/core/calendar"
	"github.com/kilianp07/planavail/core/logger"
	"github.com/kilianp07/planavail/core/metrics"
	"github.com/kilianp07/planavail/core/model"
)

// Result is the outcome of one evaluation call.
type Result struct {
	ID    string
	Slots []model.Slot
	Stats metrics.EvaluationStats
}

// Evaluator computes open slots. It holds no per-call state and may be
// shared between goroutines.
type Evaluator struct {
	cfg       Config
	cal       calendar.Calendar
	blackouts blackout.Resolver
	clock     Clock
	metrics   metrics.MetricsSink
	logger    logger.Logger
}

// schedule is a plan with its weekday set and policy resolved once.
type schedule struct {
	plan   model.Plan
	valid  model.WeekdaySet
	policy Policy
}

// NewEvaluator validates cfg and returns an Evaluator. A nil clock reads the
// wall clock; nil sink and logger disable metrics and logging.
func NewEvaluator(cfg Config, clock Clock, sink metrics.MetricsSink, log logger.Logger) (*Evaluator, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cal, err := calendar.Load(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Evaluator{
		cfg:       cfg,
		cal:       cal,
		blackouts: blackout.NewResolver(cal),
		clock:     clock,
		metrics:   sink,
		logger:    log,
	}, nil
}

// Calendar returns the calendar the evaluator anchors windows with.
func (e *Evaluator) Calendar() calendar.Calendar { return e.cal }

// Evaluate returns the open slots for req in plan order, then date order.
func (e *Evaluator) Evaluate(req model.Request) ([]model.Slot, error) {
	res, err := e.Run(req)
	if err != nil {
		return nil, err
	}
	return res.Slots, nil
}

// Run evaluates req and returns the slots together with evaluation statistics.
func (e *Evaluator) Run(req model.Request) (Result, error) {
	if err := e.validate(req); err != nil {
		e.recordValidationFailure(req.CategoryType, err)
		return Result{}, err
	}
	now := e.clock.Now()
	started := time.Now()
	res := Result{
		ID: uuid.NewString(),
		Stats: metrics.EvaluationStats{
			CategoryType: req.CategoryType,
			Days:         make(map[metrics.Outcome]int, len(metrics.Outcomes)),
			Time:         now,
		},
	}
	res.Stats.ID = res.ID

	today := e.cal.DateOf(now)
	for _, plan := range req.Plans {
		if plan.CategoryType != req.CategoryType {
			continue
		}
		if req.Start.After(plan.End) || req.End.Before(plan.Start) {
			continue
		}
		res.Stats.Plans++
		s := schedule{
			plan:   plan,
			valid:  calendar.ResolveValidWeekdays(plan),
			policy: ResolvePolicy(plan, e.cfg),
		}
		res.Slots = append(res.Slots, e.evaluatePlan(s, req, now, today, &res.Stats)...)
	}

	res.Stats.Slots = len(res.Slots)
	res.Stats.Duration = time.Since(started)
	if err := e.metrics.RecordEvaluation(res.Stats); err != nil {
		e.logger.Warnf("record evaluation %s: %v", res.ID, err)
	}
	e.logger.Debugw("availability evaluated", map[string]any{
		"evaluation_id": res.ID,
		"category_type": req.CategoryType,
		"plans":         res.Stats.Plans,
		"candidates":    res.Stats.Candidates(),
		"slots":         res.Stats.Slots,
	})
	return res, nil
}

// validate checks req and bounds the number of candidate days it can produce.
func (e *Evaluator) validate(req model.Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	days := e.cal.DateOf(req.Start).DaysUntil(e.cal.DateOf(req.End))
	if days > e.cfg.MaxRangeDays {
		return fmt.Errorf("%w: range spans %d days, at most %d allowed",
			model.ErrInvalidRequest, days, e.cfg.MaxRangeDays)
	}
	return nil
}

func (e *Evaluator) evaluatePlan(s schedule, req model.Request, now time.Time, today model.Date, stats *metrics.EvaluationStats) []model.Slot {
	first := e.cal.DateOf(later(req.Start, s.plan.Start))
	last := e.cal.DateOf(earlier(req.End, s.plan.End))

	// n business days never take fewer than n calendar days.
	if n := s.plan.SchedDaysReq; n > 0 && n > today.DaysUntil(last) {
		e.logger.Debugf("plan %s: lead time of %d days ends after %s", s.plan.ID, n, last)
		return nil
	}
	floor, ok := calendar.AdvanceBusinessDays(today, s.plan.SchedDaysReq, s.valid)
	if !ok {
		e.logger.Debugf("plan %s: no business day in %s", s.plan.ID, s.valid)
		return nil
	}
	if floor.After(first) {
		first = floor
	}

	var slots []model.Slot
	for date := first; !date.After(last); date = date.AddDays(1) {
		outcome, slot := e.evaluateDay(s, date, now, req)
		stats.Days[outcome]++
		if outcome == metrics.OutcomeOpen {
			slots = append(slots, slot)
		}
	}
	return slots
}

func (e *Evaluator) evaluateDay(s schedule, date model.Date, now time.Time, req model.Request) (metrics.Outcome, model.Slot) {
	if !s.valid.Has(date.Weekday()) {
		return metrics.OutcomeWeekday, model.Slot{}
	}
	start, end := e.cal.Window(date, s.plan)
	if now.After(end) {
		return metrics.OutcomePastWindow, model.Slot{}
	}
	day := e.blackouts.Resolve(date, s.plan, start, end, req.BlockPlans)
	if day.FullyCovered() {
		return metrics.OutcomeBlackout, model.Slot{}
	}
	bookings := e.bookings(s.plan, date, req.Events)
	usage := Usage{Window: end.Sub(start), Bookings: bookings, Blocked: day.Blocked}
	if !s.policy.Open(usage) {
		return metrics.OutcomeClosed, model.Slot{}
	}
	return metrics.OutcomeOpen, model.Slot{
		Date:      date,
		Start:     start,
		End:       end,
		Plan:      s.plan,
		Events:    bookings,
		Available: true,
	}
}

// bookings returns the non-cancelled events of plan whose start falls on date
// in the calendar zone.
func (e *Evaluator) bookings(plan model.Plan, date model.Date, events []model.Event) []model.Event {
	var out []model.Event
	for _, ev := range events {
		if ev.PlanID == "" || ev.PlanID != plan.ID || ev.StatusType == e.cfg.CancelledStatus {
			continue
		}
		if ev.Start.IsZero() || e.cal.DateOf(ev.Start) != date {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (e *Evaluator) recordValidationFailure(categoryType string, err error) {
	e.logger.Warnf("reject availability request: %v", err)
	rec, ok := e.metrics.(metrics.ValidationRecorder)
	if !ok {
		return
	}
	if rerr := rec.RecordValidationFailure(metrics.ValidationFailure{
		CategoryType: categoryType,
		Reason:       fmt.Sprint(err),
		Time:         e.clock.Now(),
	}); rerr != nil {
		e.logger.Warnf("record validation failure: %v", rerr)
	}
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
