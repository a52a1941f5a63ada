package reminders

import "time"

// FiringWindow is the default width of the due-now window and the
// minimum spacing between consecutive fires of one reminder.
const FiringWindow = 60 * time.Second

// ShouldFire reports whether a reminder is due at now. A reminder fires
// when its next occurrence falls within [next, next+window] around now,
// it has not already fired within the same window, and, for one-shot
// reminders, it has not fired at all.
//
// On a true result the caller must set LastSent to now and, for once
// recurrence, mark Sent.
func ShouldFire(r Reminder, now time.Time, window time.Duration) bool {
	if window <= 0 {
		window = FiringWindow
	}
	if r.Recurrence == RecurrenceOnce && r.Sent {
		return false
	}

	// Resolve the occurrence as of the window start: a slot that
	// passed less than a window ago is still the current one, not
	// tomorrow's. Without this, a recurring slot would stop being
	// "next" the instant it passed and could never be entered.
	next, ok := NextOccurrence(r, now.Add(-window))
	if !ok {
		return false
	}
	if now.Before(next) || now.After(next.Add(window)) {
		return false
	}
	if !r.LastSent.IsZero() && now.Sub(r.LastSent) < window {
		return false
	}
	return true
}

// Due reports whether the motivation rotation should dispatch at now.
// A config with no messages never dispatches.
func (m Motivation) Due(now time.Time) bool {
	if !m.Enabled || len(m.Messages) == 0 {
		return false
	}
	if m.LastSent.IsZero() {
		return true
	}
	return now.Sub(m.LastSent) >= m.Interval()
}

// Advance returns the message at the rotation cursor together with the
// config advanced past it. Callers persist the returned config after a
// successful dispatch.
func (m Motivation) Advance(now time.Time) (string, Motivation) {
	msg := m.Messages[m.LastIndex%len(m.Messages)]
	m.LastIndex++
	m.LastSent = now
	return msg, m
}
