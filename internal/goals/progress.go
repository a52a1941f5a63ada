package goals

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/trackd/internal/ledger"
)

// PeriodStart returns the inclusive start boundary of the period window
// containing now: daily is today 00:00, weekly the most recent Monday
// 00:00, monthly the first of the month, yearly January 1.
func PeriodStart(period Period, now time.Time) (time.Time, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case PeriodDaily:
		return midnight, nil
	case PeriodWeekly:
		// time.Weekday has Sunday=0; shift so Monday=0.
		daysBack := (int(now.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -daysBack), nil
	case PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case PeriodYearly:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), nil
	default:
		return time.Time{}, fmt.Errorf("unknown period %q", period)
	}
}

// ComputeProgress recalculates a goal's progress value from the full
// ledger. Entries with unparseable dates are ignored.
func ComputeProgress(g Goal, entries []ledger.Entry, now time.Time) (float64, error) {
	start, err := PeriodStart(g.Period, now)
	if err != nil {
		return 0, err
	}

	var progress float64
	days := make(map[string]struct{})

	for _, e := range entries {
		day, err := e.Day()
		if err != nil || day.Before(start) {
			continue
		}

		switch g.Type {
		case TypeCategory:
			if e.Category == g.Category {
				progress += float64(e.Minutes)
			}
		case TypeTotalMinutes:
			progress += float64(e.Minutes)
		case TypeConsistency:
			days[e.Date] = struct{}{}
		default:
			return 0, fmt.Errorf("unknown goal type %q", g.Type)
		}
	}

	if g.Type == TypeConsistency {
		progress = float64(len(days))
	}
	return progress, nil
}

// Percentage converts raw progress to a percent of target, clamped to
// [0, 100]. A non-positive target always yields 0.
func Percentage(progress, target float64) float64 {
	if target <= 0 {
		return 0
	}
	pct := progress / target * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
