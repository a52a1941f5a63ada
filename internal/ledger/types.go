// Package ledger manages the flat-file activity ledger.
//
// The on-disk format is one CSV row per entry: date, activity, minutes,
// category, id. Rows written by older tools carry only the first four
// fields; they are accepted on load and assigned stable ids on the next
// rewrite.
package ledger

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the fixed day-month-year format used by the ledger.
const DateLayout = "02-01-2006"

// MaxMinutes is the largest valid duration for a single entry (24h).
const MaxMinutes = 1440

// Entry is a single activity record.
type Entry struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Activity string `json:"activity"`
	Minutes  int    `json:"minutes"`
	Category string `json:"category"`
}

// Day returns the entry's calendar date at local midnight.
func (e Entry) Day() (time.Time, error) {
	return time.ParseInLocation(DateLayout, e.Date, time.Local)
}

// Validate checks the entry's fields, returning a user-facing message on
// the first violation.
func (e Entry) Validate() error {
	if e.Date == "" {
		return fmt.Errorf("Date is required")
	}
	if _, err := e.Day(); err != nil {
		return fmt.Errorf("Invalid date format (expected DD-MM-YYYY)")
	}
	if e.Activity == "" {
		return fmt.Errorf("Activity is required")
	}
	if e.Minutes <= 0 {
		return fmt.Errorf("Minutes must be a positive number")
	}
	if e.Minutes > MaxMinutes {
		return fmt.Errorf("Minutes cannot exceed 1440 (24 hours)")
	}
	if e.Category == "" {
		return fmt.Errorf("Category is required")
	}
	return nil
}

// record converts the entry to its CSV field slice.
func (e Entry) record() []string {
	return []string{e.Date, e.Activity, strconv.Itoa(e.Minutes), e.Category, e.ID}
}

// entryFromRecord parses a CSV row into an Entry. Rows with four fields
// (legacy format) produce an entry with an empty ID.
func entryFromRecord(rec []string) (Entry, error) {
	if len(rec) != 4 && len(rec) != 5 {
		return Entry{}, fmt.Errorf("expected 4 or 5 fields, got %d", len(rec))
	}

	minutes, err := strconv.Atoi(rec[2])
	if err != nil {
		return Entry{}, fmt.Errorf("minutes %q is not a number", rec[2])
	}

	e := Entry{
		Date:     rec[0],
		Activity: rec[1],
		Minutes:  minutes,
		Category: rec[3],
	}
	if len(rec) == 5 {
		e.ID = rec[4]
	}
	return e, nil
}
