package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS availability_audit (
        id TEXT PRIMARY KEY,
        ts INTEGER,
        category_type TEXT,
        record TEXT
    )`,
	`CREATE TABLE IF NOT EXISTS availability_audit_slots (
        audit_id TEXT,
        plan_id TEXT
    )`,
}

// SQLiteStore persists records to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			if cerr := db.Close(); cerr != nil {
				return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
			}
			return nil, err
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes the record and its slot plan references in one transaction.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) (err error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO availability_audit (id, ts, category_type, record) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Timestamp.UnixMilli(), rec.CategoryType, string(b)); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, slot := range rec.Slots {
		if seen[slot.PlanID] {
			continue
		}
		seen[slot.PlanID] = true
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO availability_audit_slots (audit_id, plan_id) VALUES (?, ?)`,
			rec.ID, slot.PlanID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Query returns records matching q ordered by timestamp.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Record, error) {
	var args []any
	query := `SELECT record FROM availability_audit WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.UnixMilli())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.UnixMilli())
	}
	if q.CategoryType != "" {
		query += ` AND category_type = ?`
		args = append(args, q.CategoryType)
	}
	if q.PlanID != "" {
		query += ` AND id IN (SELECT audit_id FROM availability_audit_slots WHERE plan_id = ?)`
		args = append(args, q.PlanID)
	}
	query += ` ORDER BY ts`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
