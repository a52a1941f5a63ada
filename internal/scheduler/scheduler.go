// Package scheduler runs the background dispatch loop for reminders
// and motivation messages.
package scheduler

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/config"
	"github.com/fyrsmithlabs/trackd/internal/notify"
	"github.com/fyrsmithlabs/trackd/internal/reminders"
)

// Scheduler polls the reminder and motivation stores on a fixed tick
// and delivers whatever is due. A single bad record never stops the
// loop.
type Scheduler struct {
	reminders *reminders.Service
	settings  *notify.SettingsStore
	sink      notify.Sink
	logger    *zap.Logger

	tick   time.Duration
	window time.Duration
	now    func() time.Time

	remindersFired   metric.Int64Counter
	motivationsFired metric.Int64Counter
}

// New builds a scheduler from config and its collaborators.
func New(cfg config.SchedulerConfig, svc *reminders.Service, settings *notify.SettingsStore, sink notify.Sink, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	tick := cfg.Tick.Duration()
	if tick <= 0 {
		tick = 30 * time.Second
	}
	window := cfg.FiringWindow.Duration()
	if window <= 0 {
		window = reminders.FiringWindow
	}

	meter := otel.Meter("github.com/fyrsmithlabs/trackd/internal/scheduler")
	remindersFired, _ := meter.Int64Counter("trackd.reminders.fired",
		metric.WithDescription("Reminders dispatched to the notification sink"))
	motivationsFired, _ := meter.Int64Counter("trackd.motivation.fired",
		metric.WithDescription("Motivation messages dispatched"))

	return &Scheduler{
		reminders:        svc,
		settings:         settings,
		sink:             sink,
		logger:           logger,
		tick:             tick,
		window:           window,
		now:              time.Now,
		remindersFired:   remindersFired,
		motivationsFired: motivationsFired,
	}
}

// Run blocks until ctx is cancelled, dispatching once immediately and
// then on every tick.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		zap.Duration("tick", s.tick),
		zap.Duration("firing_window", s.window))

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single dispatch pass.
func (s *Scheduler) RunOnce(ctx context.Context) {
	settings, err := s.settings.Get()
	if err != nil || !settings.Enabled {
		return
	}

	now := s.now()
	s.dispatchReminders(ctx, now)
	s.dispatchMotivation(ctx, now)
}

func (s *Scheduler) dispatchReminders(ctx context.Context, now time.Time) {
	list, err := s.reminders.List()
	if err != nil {
		s.logger.Error("failed to load reminders", zap.Error(err))
		return
	}

	changed := false
	for i := range list {
		if s.evaluate(ctx, &list[i], now) {
			changed = true
		}
	}

	if changed {
		if err := s.reminders.Replace(list); err != nil {
			s.logger.Error("failed to persist reminder state", zap.Error(err))
		}
	}
}

// evaluate gates and dispatches one reminder, reporting whether the
// record changed. Panics from a malformed record are contained here.
func (s *Scheduler) evaluate(ctx context.Context, r *reminders.Reminder, now time.Time) (changed bool) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("panic while processing reminder",
				zap.String("reminder_id", r.ID),
				zap.Any("panic", rec))
			changed = false
		}
	}()

	if !reminders.ShouldFire(*r, now, s.window) {
		return false
	}

	if err := s.sink.Notify(ctx, r.Title, r.Message); errors.Is(err, notify.ErrUnavailable) {
		s.logger.Warn("no notification command, reminder logged only",
			zap.String("reminder_id", r.ID),
			zap.String("title", r.Title))
	} else if err != nil {
		s.logger.Error("failed to deliver reminder",
			zap.String("reminder_id", r.ID),
			zap.String("title", r.Title),
			zap.Error(err))
	}

	r.LastSent = now
	if r.Recurrence == reminders.RecurrenceOnce {
		r.Sent = true
	}
	s.remindersFired.Add(ctx, 1)
	s.logger.Info("reminder fired",
		zap.String("reminder_id", r.ID),
		zap.String("title", r.Title),
		zap.String("recurrence", string(r.Recurrence)))
	return true
}

func (s *Scheduler) dispatchMotivation(ctx context.Context, now time.Time) {
	m, err := s.reminders.Motivation()
	if err != nil {
		s.logger.Error("failed to load motivation config", zap.Error(err))
		return
	}
	if !m.Due(now) {
		return
	}

	msg, advanced := m.Advance(now)
	if err := s.sink.Notify(ctx, "Motivation", msg); errors.Is(err, notify.ErrUnavailable) {
		s.logger.Warn("no notification command, motivation message logged only")
	} else if err != nil {
		s.logger.Error("failed to deliver motivation message", zap.Error(err))
	}

	if err := s.reminders.SaveMotivation(advanced); err != nil {
		s.logger.Error("failed to persist motivation state", zap.Error(err))
	}
	s.motivationsFired.Add(ctx, 1)
	s.logger.Info("motivation message fired", zap.Int("index", advanced.LastIndex))
}
