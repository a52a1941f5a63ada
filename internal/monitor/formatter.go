package monitor

import "fmt"

// FormatMinutes formats a minute count as "Xh Ym" or "Xm"
func FormatMinutes(minutes int) string {
	hours := minutes / 60
	rem := minutes % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, rem)
	}
	return fmt.Sprintf("%dm", rem)
}

// FormatPercent formats a 0-100 percentage as "X.X%"
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatCount formats an entry count as "N entries"
func FormatCount(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}

// FormatGoalProgress formats progress against a target, e.g. "180/300"
func FormatGoalProgress(progress, target float64) string {
	return fmt.Sprintf("%.0f/%.0f", progress, target)
}
