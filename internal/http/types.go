package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Envelope is the common response wrapper. Every endpoint replies with
// status "success" or "error" plus endpoint-specific payload keys.
type Envelope map[string]any

func success(c echo.Context, payload Envelope) error {
	body := Envelope{"status": "success"}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(http.StatusOK, body)
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{"status": "error", "message": message})
}

// recordRef identifies a ledger row by stable id or, for older clients,
// zero-based position.
type recordRef struct {
	ID    string `json:"id"`
	Index *int   `json:"index"`
}

func (r recordRef) index() int {
	if r.Index == nil {
		return -1
	}
	return *r.Index
}
