package availability

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/planavail/core/audit"
)

// NewLogHandler returns an HTTP handler exposing the audit log via GET /api/availability/logs.
// Query parameters: start and end (RFC3339), category_type and plan_id.
func NewLogHandler(store audit.Store, token string) http.Handler {
	return requireToken(token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			return
		}
		q, err := parseQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if records == nil {
			records = []audit.Record{}
		}
		writeJSON(w, http.StatusOK, records)
	}))
}

func parseQuery(r *http.Request) (audit.Query, error) {
	v := r.URL.Query()
	q := audit.Query{
		CategoryType: v.Get("category_type"),
		PlanID:       v.Get("plan_id"),
	}
	var err error
	if s := v.Get("start"); s != "" {
		if q.Start, err = time.Parse(time.RFC3339, s); err != nil {
			return q, fmt.Errorf("start: %w", err)
		}
	}
	if s := v.Get("end"); s != "" {
		if q.End, err = time.Parse(time.RFC3339, s); err != nil {
			return q, fmt.Errorf("end: %w", err)
		}
	}
	return q, nil
}
