package scheduler

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/config"
	"github.com/fyrsmithlabs/trackd/internal/notify"
	"github.com/fyrsmithlabs/trackd/internal/reminders"
)

type recordingSink struct {
	mu    sync.Mutex
	sends []string
}

func (r *recordingSink) Notify(_ context.Context, title, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends = append(r.sends, title+": "+message)
	return nil
}

func (r *recordingSink) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sends...)
}

type fixture struct {
	sched *Scheduler
	svc   *reminders.Service
	store *notify.SettingsStore
	sink  *recordingSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	svc := reminders.NewService(
		filepath.Join(dir, "reminders.json"),
		filepath.Join(dir, "motivation.json"),
		zap.NewNop(),
	)
	store := notify.NewSettingsStore(filepath.Join(dir, "notifications.json"), zap.NewNop())
	sink := &recordingSink{}
	sched := New(config.SchedulerConfig{}, svc, store, sink, zap.NewNop())
	return &fixture{sched: sched, svc: svc, store: store, sink: sink}
}

func TestRunOnceFiresDueReminder(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Save(reminders.Reminder{
		Title: "Stand up", Message: "Stretch", Time: "09:00",
		Recurrence: reminders.RecurrenceDaily,
	})
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 9, 0, 10, 0, time.Local)
	f.sched.now = func() time.Time { return now }

	f.sched.RunOnce(context.Background())
	assert.Equal(t, []string{"Stand up: Stretch"}, f.sink.all())

	// LastSent was persisted.
	stored, err := f.svc.List()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, now.Unix(), stored[0].LastSent.Unix())

	// A second pass inside the same window does not double-fire.
	now = now.Add(30 * time.Second)
	f.sched.RunOnce(context.Background())
	assert.Len(t, f.sink.all(), 1)
}

func TestRunOnceMarksOnceReminderSent(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Save(reminders.Reminder{
		Title: "Dentist", Message: "Leave now", Time: "14:00", Date: "01-01-2024",
		Recurrence: reminders.RecurrenceOnce,
	})
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 14, 0, 5, 0, time.Local)
	f.sched.now = func() time.Time { return now }
	f.sched.RunOnce(context.Background())

	stored, err := f.svc.List()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Sent, "record is retained and marked sent")

	// Days later it never fires again.
	now = now.AddDate(0, 0, 3)
	f.sched.RunOnce(context.Background())
	assert.Len(t, f.sink.all(), 1)
}

func TestRunOnceNotDue(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Save(reminders.Reminder{
		Title: "Stand up", Message: "Stretch", Time: "09:00",
		Recurrence: reminders.RecurrenceDaily,
	})
	require.NoError(t, err)

	f.sched.now = func() time.Time {
		return time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)
	}
	f.sched.RunOnce(context.Background())
	assert.Empty(t, f.sink.all())
}

func TestRunOnceRespectsNotificationToggle(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Save(notify.Settings{Enabled: false}))
	_, err := f.svc.Save(reminders.Reminder{
		Title: "Stand up", Message: "Stretch", Time: "09:00",
		Recurrence: reminders.RecurrenceDaily,
	})
	require.NoError(t, err)

	f.sched.now = func() time.Time {
		return time.Date(2024, 1, 1, 9, 0, 10, 0, time.Local)
	}
	f.sched.RunOnce(context.Background())
	assert.Empty(t, f.sink.all())

	// Once-reminders are not consumed while notifications are off.
	stored, err := f.svc.List()
	require.NoError(t, err)
	assert.True(t, stored[0].LastSent.IsZero())
}

func TestRunOnceMotivationRotation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SaveMotivationSettings(reminders.Motivation{
		Enabled: true, IntervalMinutes: 240, Messages: []string{"A", "B"},
	})
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
	f.sched.now = func() time.Time { return now }

	// Unset last_sent fires immediately with the first message.
	f.sched.RunOnce(context.Background())
	assert.Equal(t, []string{"Motivation: A"}, f.sink.all())

	m, err := f.svc.Motivation()
	require.NoError(t, err)
	assert.Equal(t, 1, m.LastIndex)
	assert.Equal(t, now.Unix(), m.LastSent.Unix())

	// Before the interval elapses nothing more is sent.
	now = now.Add(time.Hour)
	f.sched.RunOnce(context.Background())
	assert.Len(t, f.sink.all(), 1)

	// After the interval, the rotation advances to "B".
	now = now.Add(4 * time.Hour)
	f.sched.RunOnce(context.Background())
	assert.Equal(t, []string{"Motivation: A", "Motivation: B"}, f.sink.all())
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.sched.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
}
