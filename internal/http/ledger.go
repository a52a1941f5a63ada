package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/ledger"
)

const defaultTrendDays = 7

// handleGetAllData returns every ledger entry in insertion order.
func (s *Server) handleGetAllData(c echo.Context) error {
	entries, err := s.deps.Ledger.List()
	if err != nil {
		s.logger.Error("failed to list entries", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to load activities")
	}
	if entries == nil {
		entries = []ledger.Entry{}
	}
	return success(c, Envelope{"data": entries})
}

// handleAddEntry appends a ledger entry from a form-encoded body.
func (s *Server) handleAddEntry(c echo.Context) error {
	minutesRaw := c.FormValue("minutes")
	minutes, err := strconv.Atoi(minutesRaw)
	if err != nil && minutesRaw != "" {
		return fail(c, http.StatusBadRequest, "Minutes must be a positive number")
	}

	entry := ledger.Entry{
		Date:     c.FormValue("date"),
		Activity: c.FormValue("activity"),
		Minutes:  minutes,
		Category: c.FormValue("category"),
	}

	saved, err := s.deps.Ledger.Append(entry)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return success(c, Envelope{"entry": saved})
}

type updateEntryRequest struct {
	recordRef
	Date     string `json:"date"`
	Activity string `json:"activity"`
	Minutes  int    `json:"minutes"`
	Category string `json:"category"`
}

// handleUpdateEntry rewrites one ledger entry, addressed by id or
// zero-based index.
func (s *Server) handleUpdateEntry(c echo.Context) error {
	var req updateEntryRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	entry := ledger.Entry{
		Date:     req.Date,
		Activity: req.Activity,
		Minutes:  req.Minutes,
		Category: req.Category,
	}

	updated, err := s.deps.Ledger.Update(req.ID, req.index(), entry)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return fail(c, http.StatusNotFound, "entry not found")
	case err != nil:
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return success(c, Envelope{"entry": updated})
}

// handleDeleteEntry removes one ledger entry by id or index.
func (s *Server) handleDeleteEntry(c echo.Context) error {
	var req recordRef
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	err := s.deps.Ledger.Delete(req.ID, req.index())
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return fail(c, http.StatusNotFound, "entry not found")
	case err != nil:
		s.logger.Error("failed to delete entry", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to delete entry")
	}
	return success(c, nil)
}

// handleGetStats returns summary statistics over the whole ledger.
func (s *Server) handleGetStats(c echo.Context) error {
	entries, err := s.deps.Ledger.List()
	if err != nil {
		s.logger.Error("failed to list entries", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to load activities")
	}
	return success(c, Envelope{"stats": ledger.Compute(entries)})
}

// handleGetTrends returns daily minute totals for the trailing N days.
func (s *Server) handleGetTrends(c echo.Context) error {
	days := defaultTrendDays
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return fail(c, http.StatusBadRequest, "days must be a positive number")
		}
		days = parsed
	}

	entries, err := s.deps.Ledger.List()
	if err != nil {
		s.logger.Error("failed to list entries", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to load activities")
	}
	return success(c, Envelope{"trends": ledger.Trend(entries, days, time.Now())})
}
