package reminders

import (
	"time"

	"github.com/fyrsmithlabs/trackd/internal/ledger"
)

// NextOccurrence computes the next scheduled timestamp for a reminder
// relative to now: future, or equal to now at the boundary instant. It
// returns ok=false when the definition cannot be resolved (malformed
// time, missing date for once, bad weekday).
//
// A one-shot reminder resolves to its configured timestamp even when
// that moment has already passed; the dispatch gate is responsible for
// not re-firing it.
func NextOccurrence(r Reminder, now time.Time) (time.Time, bool) {
	clock, err := time.Parse(TimeLayout, r.Time)
	if err != nil {
		return time.Time{}, false
	}
	hour, minute := clock.Hour(), clock.Minute()

	switch r.Recurrence {
	case RecurrenceOnce:
		if r.Date == "" {
			return time.Time{}, false
		}
		day, err := time.ParseInLocation(ledger.DateLayout, r.Date, now.Location())
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location()), true

	case RecurrenceDaily:
		candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if candidate.Before(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		return candidate, true

	case RecurrenceWeekly:
		if r.Weekday < 0 || r.Weekday > 6 {
			return time.Time{}, false
		}
		// Reminder weekdays are Monday=0; time.Weekday is Sunday=0.
		nowWeekday := (int(now.Weekday()) + 6) % 7
		ahead := (r.Weekday - nowWeekday + 7) % 7
		candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()).
			AddDate(0, 0, ahead)
		if ahead == 0 && candidate.Before(now) {
			candidate = candidate.AddDate(0, 0, 7)
		}
		return candidate, true

	default:
		return time.Time{}, false
	}
}
