package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRequest is wrapped by every validation failure of a Request.
var ErrInvalidRequest = errors.New("invalid availability request")

// Request carries the inputs of one availability evaluation.
type Request struct {
	Start        time.Time
	End          time.Time
	CategoryType string
	Plans        []Plan
	Events       []Event
	BlockPlans   []BlockPlan
}

// Validate rejects requests whose required fields are missing or inconsistent.
// Optional plan fields are not checked: they fall back to defaults.
func (r Request) Validate() error {
	if r.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidRequest)
	}
	if r.End.IsZero() {
		return fmt.Errorf("%w: end is required", ErrInvalidRequest)
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidRequest,
			r.End.Format(time.RFC3339), r.Start.Format(time.RFC3339))
	}
	for i, p := range r.Plans {
		if p.ID == "" {
			return fmt.Errorf("%w: plan[%d] has no id", ErrInvalidRequest, i)
		}
		if p.DivisionID == "" {
			return fmt.Errorf("%w: plan %s has no division id", ErrInvalidRequest, p.ID)
		}
		if p.Start.IsZero() || p.End.IsZero() {
			return fmt.Errorf("%w: plan %s has no start/end", ErrInvalidRequest, p.ID)
		}
	}
	return nil
}
