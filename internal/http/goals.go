package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/goals"
)

// handleGetGoals returns all goals with their last computed progress.
func (s *Server) handleGetGoals(c echo.Context) error {
	stored, err := s.deps.Goals.List()
	if err != nil {
		s.logger.Error("failed to list goals", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to load goals")
	}
	if stored == nil {
		stored = []goals.Goal{}
	}
	return success(c, Envelope{"goals": stored})
}

// handleSaveGoal creates or updates a goal.
func (s *Server) handleSaveGoal(c echo.Context) error {
	var g goals.Goal
	if err := c.Bind(&g); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	saved, err := s.deps.Goals.Save(g)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return success(c, Envelope{"goal": saved})
}

// handleDeleteGoal removes a goal by id.
func (s *Server) handleDeleteGoal(c echo.Context) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	if err := s.deps.Goals.Delete(req.ID); err != nil {
		s.logger.Error("failed to delete goal", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to delete goal")
	}
	return success(c, nil)
}

// handleUpdateGoalProgress recomputes progress for every goal against
// the current ledger and returns the refreshed list.
func (s *Server) handleUpdateGoalProgress(c echo.Context) error {
	entries, err := s.deps.Ledger.List()
	if err != nil {
		s.logger.Error("failed to list entries", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to load activities")
	}

	refreshed, err := s.deps.Goals.RecomputeAll(entries, time.Now())
	if err != nil {
		s.logger.Error("failed to recompute goal progress", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to update goal progress")
	}
	if refreshed == nil {
		refreshed = []goals.Goal{}
	}
	return success(c, Envelope{"goals": refreshed})
}
