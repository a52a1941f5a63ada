package reminders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldFire(t *testing.T) {
	// Monday 1 January 2024.
	slot := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	daily := Reminder{Recurrence: RecurrenceDaily, Time: "09:00"}

	t.Run("fires inside the window", func(t *testing.T) {
		assert.True(t, ShouldFire(daily, slot, FiringWindow))
		assert.True(t, ShouldFire(daily, slot.Add(30*time.Second), FiringWindow))
		assert.True(t, ShouldFire(daily, slot.Add(60*time.Second), FiringWindow))
	})

	t.Run("past the window the next occurrence is tomorrow", func(t *testing.T) {
		assert.False(t, ShouldFire(daily, slot.Add(61*time.Second), FiringWindow))
	})

	t.Run("no double fire across ticks in one window", func(t *testing.T) {
		r := daily
		now := slot.Add(5 * time.Second)
		require.True(t, ShouldFire(r, now, FiringWindow))
		r.LastSent = now

		// Next polling tick, still inside the same window.
		assert.False(t, ShouldFire(r, now.Add(30*time.Second), FiringWindow))

		// A day later the same reminder is due again.
		assert.True(t, ShouldFire(r, now.AddDate(0, 0, 1), FiringWindow))
	})

	t.Run("once fires inside its window then never again", func(t *testing.T) {
		r := Reminder{Recurrence: RecurrenceOnce, Date: "01-01-2024", Time: "09:00"}
		now := slot.Add(10 * time.Second)
		require.True(t, ShouldFire(r, now, FiringWindow))

		r.LastSent = now
		r.Sent = true
		assert.False(t, ShouldFire(r, now.Add(2*time.Minute), FiringWindow))
		assert.False(t, ShouldFire(r, now.AddDate(0, 0, 1), FiringWindow))
	})

	t.Run("once before its slot does not fire", func(t *testing.T) {
		r := Reminder{Recurrence: RecurrenceOnce, Date: "01-01-2024", Time: "09:00"}
		assert.False(t, ShouldFire(r, slot.Add(-time.Minute), FiringWindow))
	})

	t.Run("unresolvable reminder never fires", func(t *testing.T) {
		r := Reminder{Recurrence: RecurrenceWeekly, Weekday: 42, Time: "09:00"}
		assert.False(t, ShouldFire(r, slot, FiringWindow))
	})
}

func TestMotivationGate(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)

	t.Run("unset last_sent fires immediately", func(t *testing.T) {
		m := Motivation{Enabled: true, IntervalMinutes: 240, Messages: []string{"A", "B"}}
		require.True(t, m.Due(now))

		msg, next := m.Advance(now)
		assert.Equal(t, "A", msg)
		assert.Equal(t, 1, next.LastIndex)
		assert.Equal(t, now, next.LastSent)
	})

	t.Run("respects the interval", func(t *testing.T) {
		m := Motivation{Enabled: true, IntervalMinutes: 240, Messages: []string{"A"}, LastSent: now}
		assert.False(t, m.Due(now.Add(3*time.Hour)))
		assert.True(t, m.Due(now.Add(4*time.Hour)))
	})

	t.Run("rotation wraps around", func(t *testing.T) {
		m := Motivation{Enabled: true, IntervalMinutes: 1, Messages: []string{"A", "B"}}
		var got []string
		for i := 0; i < 3; i++ {
			var msg string
			msg, m = m.Advance(now.Add(time.Duration(i) * time.Minute))
			got = append(got, msg)
		}
		assert.Equal(t, []string{"A", "B", "A"}, got)
	})

	t.Run("disabled or empty never dispatches", func(t *testing.T) {
		assert.False(t, Motivation{Enabled: false, IntervalMinutes: 1, Messages: []string{"A"}}.Due(now))
		assert.False(t, Motivation{Enabled: true, IntervalMinutes: 1}.Due(now))
	})
}
