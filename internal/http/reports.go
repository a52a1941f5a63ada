package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/trackd/internal/reports"
)

// handleGenerateReport runs a named report script and returns its
// output. Script failures are error responses, bounded by the script
// timeout, never a crash.
func (s *Server) handleGenerateReport(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fail(c, http.StatusBadRequest, "name is required")
	}

	result, err := s.deps.Reports.Run(c.Request().Context(), req.Name)
	switch {
	case errors.Is(err, reports.ErrUnknownReport):
		return fail(c, http.StatusNotFound, err.Error())
	case err != nil:
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return success(c, Envelope{"report": result})
}
