// Package audit persists a summary of every availability evaluation so that
// operators can answer which slots were offered, when and for which plans.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/planavail/core/model"
)

// SlotRef identifies one returned slot.
type SlotRef struct {
	PlanID string     `json:"plan_id"`
	Date   model.Date `json:"date"`
}

// Record captures one evaluation.
type Record struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	CategoryType string    `json:"category_type"`
	RangeStart   time.Time `json:"range_start"`
	RangeEnd     time.Time `json:"range_end"`
	Plans        int       `json:"plans"`
	Slots        []SlotRef `json:"slots"`
}

// NewRecord summarises the slots returned for req.
func NewRecord(id string, at time.Time, req model.Request, plans int, slots []model.Slot) Record {
	refs := make([]SlotRef, 0, len(slots))
	for _, s := range slots {
		refs = append(refs, SlotRef{PlanID: s.Plan.ID, Date: s.Date})
	}
	return Record{
		ID:           id,
		Timestamp:    at,
		CategoryType: req.CategoryType,
		RangeStart:   req.Start,
		RangeEnd:     req.End,
		Plans:        plans,
		Slots:        refs,
	}
}

// Query defines filters for retrieving records. Zero fields match everything.
type Query struct {
	Start        time.Time
	End          time.Time
	CategoryType string
	PlanID       string
}

// Matches reports whether r passes every filter of q.
func (q Query) Matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.CategoryType != "" && r.CategoryType != q.CategoryType {
		return false
	}
	if q.PlanID == "" {
		return true
	}
	for _, s := range r.Slots {
		if s.PlanID == q.PlanID {
			return true
		}
	}
	return false
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Options selects and configures a Store backend.
type Options struct {
	Backend    string // "jsonl", "sqlite" or "none"
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Open returns the Store described by o.
func Open(o Options) (Store, error) {
	switch o.Backend {
	case "", "jsonl":
		return NewRotatingJSONLStore(o.Path, o.MaxSizeMB, o.MaxBackups, o.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(o.Path)
	case "none":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown audit backend %q", o.Backend)
	}
}

// NopStore discards every record.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error          { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
