// Package goals tracks targets against the activity ledger.
package goals

import (
	"fmt"
	"time"
)

// Type selects what a goal measures.
type Type string

const (
	// TypeCategory sums minutes in one category.
	TypeCategory Type = "category"
	// TypeTotalMinutes sums minutes across all categories.
	TypeTotalMinutes Type = "total_minutes"
	// TypeConsistency counts distinct days with at least one entry.
	TypeConsistency Type = "consistency"
)

// Period selects the aggregation window.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Goal is a stored target. Progress fields are recomputed on demand and
// never trusted as durable truth between recomputations.
type Goal struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Type               Type      `json:"type"`
	Category           string    `json:"category,omitempty"`
	Period             Period    `json:"period"`
	Target             float64   `json:"target"`
	CurrentProgress    float64   `json:"current_progress"`
	ProgressPercentage float64   `json:"progress_percentage"`
	CreatedAt          time.Time `json:"created_at,omitempty"`
}

// Validate checks the goal definition.
func (g Goal) Validate() error {
	if g.Title == "" {
		return fmt.Errorf("Title is required")
	}
	switch g.Type {
	case TypeCategory:
		if g.Category == "" {
			return fmt.Errorf("Category is required for category goals")
		}
	case TypeTotalMinutes, TypeConsistency:
	default:
		return fmt.Errorf("Unknown goal type %q", g.Type)
	}
	switch g.Period {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
	default:
		return fmt.Errorf("Unknown goal period %q", g.Period)
	}
	if g.Target <= 0 {
		return fmt.Errorf("Target must be a positive number")
	}
	return nil
}
