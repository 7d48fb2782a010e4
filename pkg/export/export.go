// Package export renders availability slots for files and terminals.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/planavail/core/model"
)

// WriteJSON writes the slots to w as an indented JSON array.
func WriteJSON(w io.Writer, slots []model.Slot) error {
	if slots == nil {
		slots = []model.Slot{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(slots)
}

// WriteCSV writes one row per slot. Instants keep the offset of the zone the
// window was anchored in; events is the number of bookings on the day.
func WriteCSV(w io.Writer, slots []model.Slot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"plan_id", "date", "start", "end", "events"}); err != nil {
		return err
	}
	for _, s := range slots {
		rec := []string{
			s.Plan.ID,
			s.Date.String(),
			s.Start.Format(time.RFC3339),
			s.End.Format(time.RFC3339),
			strconv.Itoa(len(s.Events)),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
