package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ID is an identifier that may arrive on the wire as a JSON string or number.
type ID string

// UnmarshalJSON accepts both `"42"` and `42`.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Ref is the nested `{"id": ...}` reference used for divisions, plans and
// related plans.
type Ref struct {
	ID ID `json:"id"`
}

// Millis is an instant expressed as epoch milliseconds. Zero means unset.
type Millis int64

// MillisOf converts t to Millis; the zero time maps to 0.
func MillisOf(t time.Time) Millis {
	if t.IsZero() {
		return 0
	}
	return Millis(t.UnixMilli())
}

// Time converts m back to a time.Time in UTC; 0 maps to the zero time.
func (m Millis) Time() time.Time {
	if m == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(m)).UTC()
}

// UnmarshalJSON accepts integral and fractional numbers as well as numeric strings.
func (m *Millis) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*m = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("epoch millis: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("epoch millis: %s is not finite", b)
	}
	*m = Millis(f)
	return nil
}

// Count is an optional integer that tolerates sloppy wire values. Numeric
// strings are parsed, fractions are truncated, magnitudes saturate at 32 bits
// and anything else reads as 0.
type Count int

// UnmarshalJSON never fails; unusable input leaves the count unset.
func (c *Count) UnmarshalJSON(b []byte) error {
	*c = 0
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		b = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*c = Count(math.Max(math.MinInt32, math.Min(math.MaxInt32, math.Trunc(f))))
	return nil
}

type planWire struct {
	ID                ID     `json:"id"`
	Division          Ref    `json:"division"`
	CategoryType      string `json:"categoryType"`
	Start             Millis `json:"start"`
	End               Millis `json:"end"`
	Capacity          Count  `json:"capacity,omitempty"`
	Increment         Count  `json:"increment,omitempty"`
	SchedDaysReq      Count  `json:"schedDaysReq,omitempty"`
	DaysOccurringType string `json:"daysOccurringType,omitempty"`
}

// MarshalJSON encodes the plan in its wire shape.
func (p Plan) MarshalJSON() ([]byte, error) {
	w := planWire{
		ID:           ID(p.ID),
		Division:     Ref{ID: ID(p.DivisionID)},
		CategoryType: p.CategoryType,
		Start:        MillisOf(p.Start),
		End:          MillisOf(p.End),
		Capacity:     Count(p.Capacity),
		Increment:    Count(p.Increment),
		SchedDaysReq: Count(p.SchedDaysReq),
	}
	if !p.Days.Empty() {
		w.DaysOccurringType = p.Days.String()
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire shape and parses daysOccurringType once.
func (p *Plan) UnmarshalJSON(b []byte) error {
	var w planWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*p = Plan{
		ID:           string(w.ID),
		DivisionID:   string(w.Division.ID),
		CategoryType: w.CategoryType,
		Start:        w.Start.Time(),
		End:          w.End.Time(),
		Capacity:     int(w.Capacity),
		Increment:    int(w.Increment),
		SchedDaysReq: int(w.SchedDaysReq),
		Days:         ParseWeekdays(w.DaysOccurringType),
	}
	return nil
}

type eventWire struct {
	ID         ID     `json:"id,omitempty"`
	Plan       *Ref   `json:"plan,omitempty"`
	Start      Millis `json:"start"`
	End        Millis `json:"end,omitempty"`
	StatusType string `json:"statusType,omitempty"`
}

// MarshalJSON encodes the event in its wire shape.
func (e Event) MarshalJSON() ([]byte, error) {
	w := eventWire{
		ID:         ID(e.ID),
		Start:      MillisOf(e.Start),
		End:        MillisOf(e.End),
		StatusType: e.StatusType,
	}
	if e.PlanID != "" {
		w.Plan = &Ref{ID: ID(e.PlanID)}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire shape of an event.
func (e *Event) UnmarshalJSON(b []byte) error {
	var w eventWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*e = Event{
		ID:         string(w.ID),
		Start:      w.Start.Time(),
		End:        w.End.Time(),
		StatusType: w.StatusType,
	}
	if w.Plan != nil {
		e.PlanID = string(w.Plan.ID)
	}
	return nil
}

type blockPlanWire struct {
	ID                ID     `json:"id,omitempty"`
	Division          Ref    `json:"division"`
	Related           Ref    `json:"related"`
	Start             Millis `json:"start"`
	End               Millis `json:"end"`
	DaysOccurringType string `json:"daysOccurringType,omitempty"`
}

// MarshalJSON encodes the blackout rule in its wire shape.
func (b BlockPlan) MarshalJSON() ([]byte, error) {
	w := blockPlanWire{
		ID:       ID(b.ID),
		Division: Ref{ID: ID(b.DivisionID)},
		Related:  Ref{ID: ID(b.RelatedID)},
		Start:    MillisOf(b.Start),
		End:      MillisOf(b.End),
	}
	if !b.Days.Empty() {
		w.DaysOccurringType = b.Days.String()
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire shape of a blackout rule.
func (b *BlockPlan) UnmarshalJSON(data []byte) error {
	var w blockPlanWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*b = BlockPlan{
		ID:         string(w.ID),
		DivisionID: string(w.Division.ID),
		RelatedID:  string(w.Related.ID),
		Start:      w.Start.Time(),
		End:        w.End.Time(),
		Days:       ParseWeekdays(w.DaysOccurringType),
	}
	return nil
}

type slotWire struct {
	Date      Date    `json:"date"`
	Start     Millis  `json:"start"`
	End       Millis  `json:"end"`
	Plan      Plan    `json:"plan"`
	Events    []Event `json:"events"`
	Available bool    `json:"available"`
}

// MarshalJSON encodes the slot with epoch millisecond instants.
func (s Slot) MarshalJSON() ([]byte, error) {
	events := s.Events
	if events == nil {
		events = []Event{}
	}
	return json.Marshal(slotWire{
		Date:      s.Date,
		Start:     MillisOf(s.Start),
		End:       MillisOf(s.End),
		Plan:      s.Plan,
		Events:    events,
		Available: s.Available,
	})
}

// UnmarshalJSON decodes a slot previously produced by MarshalJSON.
func (s *Slot) UnmarshalJSON(b []byte) error {
	var w slotWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*s = Slot{
		Date:      w.Date,
		Start:     w.Start.Time(),
		End:       w.End.Time(),
		Plan:      w.Plan,
		Events:    w.Events,
		Available: w.Available,
	}
	return nil
}

type requestWire struct {
	Start        Millis      `json:"start"`
	End          Millis      `json:"end"`
	CategoryType string      `json:"categoryType"`
	Plans        []Plan      `json:"plans"`
	Events       []Event     `json:"events"`
	BlockPlans   []BlockPlan `json:"blockPlans"`
}

// MarshalJSON encodes the request in its wire shape.
func (r Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(requestWire{
		Start:        MillisOf(r.Start),
		End:          MillisOf(r.End),
		CategoryType: r.CategoryType,
		Plans:        r.Plans,
		Events:       r.Events,
		BlockPlans:   r.BlockPlans,
	})
}

// UnmarshalJSON decodes the wire shape of a request.
func (r *Request) UnmarshalJSON(b []byte) error {
	var w requestWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = Request{
		Start:        w.Start.Time(),
		End:          w.End.Time(),
		CategoryType: w.CategoryType,
		Plans:        w.Plans,
		Events:       w.Events,
		BlockPlans:   w.BlockPlans,
	}
	return nil
}
