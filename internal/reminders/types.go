// Package reminders implements reminder recurrence, dispatch gating,
// and the persisted reminder and motivation documents.
package reminders

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/trackd/internal/ledger"
)

// TimeLayout is the wall-clock format reminders carry.
const TimeLayout = "15:04"

// Recurrence is the repetition rule governing when a reminder is next
// due.
type Recurrence string

const (
	RecurrenceOnce   Recurrence = "once"
	RecurrenceDaily  Recurrence = "daily"
	RecurrenceWeekly Recurrence = "weekly"
)

// Reminder is a stored reminder definition. Weekday uses 0=Monday
// through 6=Sunday and is only meaningful for weekly recurrence. A
// fired one-shot reminder is retained with Sent set rather than
// deleted.
type Reminder struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Date       string     `json:"date,omitempty"`
	Time       string     `json:"time"`
	Recurrence Recurrence `json:"recurrence"`
	Weekday    int        `json:"weekday"`
	LastSent   time.Time  `json:"last_sent,omitzero"`
	Sent       bool       `json:"sent,omitempty"`
	CreatedAt  time.Time  `json:"created_at,omitzero"`
}

// Validate checks the reminder definition.
func (r Reminder) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("Title is required")
	}
	if _, err := time.Parse(TimeLayout, r.Time); err != nil {
		return fmt.Errorf("Invalid time format (expected HH:MM)")
	}
	switch r.Recurrence {
	case RecurrenceOnce:
		if r.Date == "" {
			return fmt.Errorf("Date is required for one-time reminders")
		}
		if _, err := time.Parse(ledger.DateLayout, r.Date); err != nil {
			return fmt.Errorf("Invalid date format (expected DD-MM-YYYY)")
		}
	case RecurrenceDaily:
	case RecurrenceWeekly:
		if r.Weekday < 0 || r.Weekday > 6 {
			return fmt.Errorf("Weekday must be between 0 (Monday) and 6 (Sunday)")
		}
	default:
		return fmt.Errorf("Unknown recurrence %q", r.Recurrence)
	}
	return nil
}

// Motivation is the singleton rotating-message configuration.
type Motivation struct {
	Enabled         bool      `json:"enabled"`
	IntervalMinutes int       `json:"interval_minutes"`
	Messages        []string  `json:"messages"`
	LastSent        time.Time `json:"last_sent,omitzero"`
	LastIndex       int       `json:"last_index"`
}

// Validate checks the motivation settings.
func (m Motivation) Validate() error {
	if m.IntervalMinutes <= 0 {
		return fmt.Errorf("Interval must be a positive number of minutes")
	}
	return nil
}

// Interval returns the configured dispatch interval.
func (m Motivation) Interval() time.Duration {
	return time.Duration(m.IntervalMinutes) * time.Minute
}
