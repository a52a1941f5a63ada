package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/reminders"
)

// handleGetReminders returns all stored reminders.
func (s *Server) handleGetReminders(c echo.Context) error {
	stored, err := s.deps.Reminders.List()
	if err != nil {
		s.logger.Error("failed to list reminders", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to load reminders")
	}
	if stored == nil {
		stored = []reminders.Reminder{}
	}
	return success(c, Envelope{"reminders": stored})
}

// handleSaveReminder creates or updates a reminder.
func (s *Server) handleSaveReminder(c echo.Context) error {
	var r reminders.Reminder
	if err := c.Bind(&r); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	saved, err := s.deps.Reminders.Save(r)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return success(c, Envelope{"reminder": saved})
}

// handleDeleteReminder removes a reminder by id. Succeeds whether or
// not the id existed.
func (s *Server) handleDeleteReminder(c echo.Context) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	if err := s.deps.Reminders.Delete(req.ID); err != nil {
		s.logger.Error("failed to delete reminder", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to delete reminder")
	}
	return success(c, nil)
}

// handleGetMotivationSettings returns the motivation config.
func (s *Server) handleGetMotivationSettings(c echo.Context) error {
	m, err := s.deps.Reminders.Motivation()
	if err != nil {
		s.logger.Error("failed to load motivation settings", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to load motivation settings")
	}
	return success(c, Envelope{"settings": m})
}

type motivationSettingsRequest struct {
	Enabled         bool     `json:"enabled"`
	IntervalMinutes int      `json:"interval_minutes"`
	Messages        []string `json:"messages"`
}

// handleSaveMotivationSettings applies user-edited motivation settings.
// Rotation state survives unless the message list changed.
func (s *Server) handleSaveMotivationSettings(c echo.Context) error {
	var req motivationSettingsRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	saved, err := s.deps.Reminders.SaveMotivationSettings(reminders.Motivation{
		Enabled:         req.Enabled,
		IntervalMinutes: req.IntervalMinutes,
		Messages:        req.Messages,
	})
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return success(c, Envelope{"settings": saved})
}
