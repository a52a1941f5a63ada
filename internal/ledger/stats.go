package ledger

import (
	"sort"
	"time"
)

// CategoryStat is the aggregate for one category.
type CategoryStat struct {
	Category string  `json:"category"`
	Minutes  int     `json:"minutes"`
	Entries  int     `json:"entries"`
	Percent  float64 `json:"percent"`
}

// Stats summarizes the whole ledger.
type Stats struct {
	TotalEntries int            `json:"total_entries"`
	TotalMinutes int            `json:"total_minutes"`
	ActiveDays   int            `json:"active_days"`
	Categories   []CategoryStat `json:"categories"`
}

// TrendPoint is the total minutes logged on one calendar day.
type TrendPoint struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// Compute recalculates summary statistics from the full ledger.
// Entries with unparseable dates still count toward totals and category
// sums; they just cannot contribute a distinct active day.
func Compute(entries []Entry) Stats {
	st := Stats{TotalEntries: len(entries)}

	byCategory := make(map[string]*CategoryStat)
	days := make(map[string]struct{})

	for _, e := range entries {
		st.TotalMinutes += e.Minutes

		cs, ok := byCategory[e.Category]
		if !ok {
			cs = &CategoryStat{Category: e.Category}
			byCategory[e.Category] = cs
		}
		cs.Minutes += e.Minutes
		cs.Entries++

		if _, err := e.Day(); err == nil {
			days[e.Date] = struct{}{}
		}
	}
	st.ActiveDays = len(days)

	st.Categories = make([]CategoryStat, 0, len(byCategory))
	for _, cs := range byCategory {
		if st.TotalMinutes > 0 {
			cs.Percent = float64(cs.Minutes) / float64(st.TotalMinutes) * 100
		}
		st.Categories = append(st.Categories, *cs)
	}
	// Largest categories first, name as tiebreak for stable output.
	sort.Slice(st.Categories, func(i, j int) bool {
		if st.Categories[i].Minutes != st.Categories[j].Minutes {
			return st.Categories[i].Minutes > st.Categories[j].Minutes
		}
		return st.Categories[i].Category < st.Categories[j].Category
	})

	return st
}

// Trend returns per-day totals for the trailing window ending today,
// zero-filled for days with no entries.
func Trend(entries []Entry, days int, now time.Time) []TrendPoint {
	if days < 1 {
		days = 1
	}

	totals := make(map[string]int)
	for _, e := range entries {
		if _, err := e.Day(); err != nil {
			continue
		}
		totals[e.Date] += e.Minutes
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	points := make([]TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(DateLayout)
		points = append(points, TrendPoint{Date: date, Minutes: totals[date]})
	}
	return points
}
