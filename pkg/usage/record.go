package usage

import (
	"encoding/json"
	"time"
)

// DateLayout is the timezone-agnostic calendar form records are keyed by.
const DateLayout = "2006-01-02"

// Record is the persisted usage state for one tenant. Date always reflects
// the day Count was last accumulated on; a record dated before today is
// logically stale and treated as absent.
type Record struct {
	Count int    `json:"count"`
	Date  string `json:"date"`
}

// IsFor reports whether the record belongs to the given day.
func (r Record) IsFor(day string) bool {
	return r.Date == day
}

// Day formats a point in time as the record date for that day, in UTC.
func Day(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// parseRecord decodes a stored blob. Malformed blobs and records with
// nonsense counts are reported as not ok, never as errors: stored garbage
// must behave exactly like absence.
func parseRecord(raw []byte) (Record, bool) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, false
	}
	if rec.Count < 0 || rec.Date == "" {
		return Record{}, false
	}
	if _, err := time.Parse(DateLayout, rec.Date); err != nil {
		return Record{}, false
	}
	return rec, true
}
