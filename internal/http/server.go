// Package http provides the HTTP API for trackd.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/config"
	"github.com/fyrsmithlabs/trackd/internal/goals"
	"github.com/fyrsmithlabs/trackd/internal/ledger"
	"github.com/fyrsmithlabs/trackd/internal/notify"
	"github.com/fyrsmithlabs/trackd/internal/reminders"
	"github.com/fyrsmithlabs/trackd/internal/reports"
	"github.com/fyrsmithlabs/trackd/internal/todo"
)

// Deps bundles the services the HTTP layer exposes.
type Deps struct {
	Ledger         *ledger.Store
	Goals          *goals.Service
	Reminders      *reminders.Service
	Todos          *todo.Service
	Reports        reports.Runner
	Sink           notify.Sink
	NotifySettings *notify.SettingsStore
}

// Server provides HTTP endpoints for trackd.
type Server struct {
	echo   *echo.Echo
	deps   Deps
	logger *zap.Logger
	config config.ServerConfig
}

// NewServer creates a new HTTP server.
func NewServer(cfg config.ServerConfig, deps Deps, metrics *HTTPMetrics, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if deps.Ledger == nil {
		return nil, fmt.Errorf("ledger store cannot be nil")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if metrics != nil {
		e.Use(metrics.MetricsMiddleware())
	}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:   e,
		deps:   deps,
		logger: logger,
		config: cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints. The snake_case paths match
// the surface existing clients already speak.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Activity ledger
	s.echo.GET("/get_all_data", s.handleGetAllData)
	s.echo.POST("/add_entry", s.handleAddEntry)
	s.echo.POST("/update_entry", s.handleUpdateEntry)
	s.echo.POST("/delete_entry", s.handleDeleteEntry)
	s.echo.GET("/get_stats", s.handleGetStats)
	s.echo.GET("/get_trends", s.handleGetTrends)

	// Goals
	s.echo.GET("/get_goals", s.handleGetGoals)
	s.echo.POST("/save_goal", s.handleSaveGoal)
	s.echo.POST("/delete_goal", s.handleDeleteGoal)
	s.echo.POST("/update_goal_progress", s.handleUpdateGoalProgress)

	// Reminders and motivation
	s.echo.GET("/get_reminders", s.handleGetReminders)
	s.echo.POST("/save_reminder", s.handleSaveReminder)
	s.echo.POST("/delete_reminder", s.handleDeleteReminder)
	s.echo.GET("/get_motivation_settings", s.handleGetMotivationSettings)
	s.echo.POST("/save_motivation_settings", s.handleSaveMotivationSettings)

	// Notifications
	s.echo.GET("/get_notification_settings", s.handleGetNotificationSettings)
	s.echo.POST("/save_notification_settings", s.handleSaveNotificationSettings)
	s.echo.POST("/trigger_test_notification", s.handleTriggerTestNotification)

	// To-do items
	s.echo.GET("/get_todos", s.handleGetTodos)
	s.echo.POST("/save_todo", s.handleSaveTodo)
	s.echo.POST("/delete_todo", s.handleDeleteTodo)

	// Reports
	s.echo.POST("/generate_report", s.handleGenerateReport)
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
