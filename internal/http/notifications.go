package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/notify"
)

// handleGetNotificationSettings returns the notification toggle.
func (s *Server) handleGetNotificationSettings(c echo.Context) error {
	settings, err := s.deps.NotifySettings.Get()
	if err != nil {
		s.logger.Error("failed to load notification settings", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to load notification settings")
	}
	return success(c, Envelope{"settings": settings})
}

// handleSaveNotificationSettings persists the notification toggle.
func (s *Server) handleSaveNotificationSettings(c echo.Context) error {
	var settings notify.Settings
	if err := c.Bind(&settings); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	if err := s.deps.NotifySettings.Save(settings); err != nil {
		s.logger.Error("failed to save notification settings", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to save notification settings")
	}
	return success(c, Envelope{"settings": settings})
}

type testNotificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// handleTriggerTestNotification sends a notification through the
// configured sink so users can verify their desktop setup. Title and
// message are optional; defaults fill in whatever is absent.
func (s *Server) handleTriggerTestNotification(c echo.Context) error {
	var req testNotificationRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" {
		req.Title = "Test Notification"
	}
	if req.Message == "" {
		req.Message = "Notifications are working"
	}

	err := s.deps.Sink.Notify(c.Request().Context(), req.Title, req.Message)
	switch {
	case errors.Is(err, notify.ErrUnavailable):
		return fail(c, http.StatusServiceUnavailable, "no notification mechanism is available on this host")
	case err != nil:
		s.logger.Error("test notification failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "notification delivery failed")
	}
	return success(c, nil)
}
