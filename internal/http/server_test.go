package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/config"
	"github.com/fyrsmithlabs/trackd/internal/goals"
	"github.com/fyrsmithlabs/trackd/internal/ledger"
	"github.com/fyrsmithlabs/trackd/internal/notify"
	"github.com/fyrsmithlabs/trackd/internal/reminders"
	"github.com/fyrsmithlabs/trackd/internal/reports"
	"github.com/fyrsmithlabs/trackd/internal/todo"
)

type fakeSink struct {
	mu    sync.Mutex
	sends []string
	err   error
}

func (f *fakeSink) Notify(_ context.Context, title, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, title+": "+message)
	return f.err
}

type testServer struct {
	srv  *Server
	sink *fakeSink
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	logger := zap.NewNop()
	sink := &fakeSink{}

	deps := Deps{
		Ledger: ledger.NewStore(filepath.Join(dir, config.LedgerFile), logger),
		Goals:  goals.NewService(filepath.Join(dir, config.GoalsFile), logger),
		Reminders: reminders.NewService(
			filepath.Join(dir, config.RemindersFile),
			filepath.Join(dir, config.MotivationFile),
			logger,
		),
		Todos: todo.NewService(filepath.Join(dir, config.TodosFile), logger),
		Reports: reports.NewExecRunner(config.ReportsConfig{
			Scripts: map[string]string{"weekly": "echo weekly summary"},
		}, logger),
		Sink:           sink,
		NotifySettings: notify.NewSettingsStore(filepath.Join(dir, config.NotificationsFile), logger),
	}

	srv, err := NewServer(config.ServerConfig{Host: "localhost", Port: 0}, deps, nil, logger)
	require.NoError(t, err)
	return &testServer{srv: srv, sink: sink}
}

func (ts *testServer) getJSON(t *testing.T, path string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	ts.srv.echo.ServeHTTP(rec, req)
	return rec.Code, decodeBody(t, rec)
}

func (ts *testServer) postJSON(t *testing.T, path string, body any) (int, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(raw)))
	req.Header.Set(echoHeaderContentType, "application/json")
	rec := httptest.NewRecorder()
	ts.srv.echo.ServeHTTP(rec, req)
	return rec.Code, decodeBody(t, rec)
}

func (ts *testServer) postForm(t *testing.T, path string, form url.Values) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echoHeaderContentType, "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	ts.srv.echo.ServeHTTP(rec, req)
	return rec.Code, decodeBody(t, rec)
}

const echoHeaderContentType = "Content-Type"

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	code, body := ts.getJSON(t, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestLedgerEndpoints(t *testing.T) {
	ts := newTestServer(t)

	t.Run("empty ledger", func(t *testing.T) {
		code, body := ts.getJSON(t, "/get_all_data")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "success", body["status"])
		assert.Empty(t, body["data"])
	})

	t.Run("add entry via form", func(t *testing.T) {
		code, body := ts.postForm(t, "/add_entry", url.Values{
			"date":     {"15-01-2024"},
			"activity": {"Morning run"},
			"minutes":  {"45"},
			"category": {"Exercise"},
		})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "success", body["status"])

		entry := body["entry"].(map[string]any)
		assert.NotEmpty(t, entry["id"])
		assert.Equal(t, "Morning run", entry["activity"])
	})

	t.Run("rejects excessive minutes without mutation", func(t *testing.T) {
		code, body := ts.postForm(t, "/add_entry", url.Values{
			"date":     {"15-01-2024"},
			"activity": {"Marathon"},
			"minutes":  {"1500"},
			"category": {"Exercise"},
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "Minutes cannot exceed 1440 (24 hours)", body["message"])

		_, listBody := ts.getJSON(t, "/get_all_data")
		assert.Len(t, listBody["data"], 1)
	})

	t.Run("update by index", func(t *testing.T) {
		idx := 0
		code, body := ts.postJSON(t, "/update_entry", map[string]any{
			"index": idx, "date": "15-01-2024", "activity": "Evening run",
			"minutes": 60, "category": "Exercise",
		})
		require.Equal(t, http.StatusOK, code)
		entry := body["entry"].(map[string]any)
		assert.Equal(t, "Evening run", entry["activity"])
	})

	t.Run("update unknown id is 404", func(t *testing.T) {
		code, body := ts.postJSON(t, "/update_entry", map[string]any{
			"id": "nope", "date": "15-01-2024", "activity": "X",
			"minutes": 10, "category": "Misc",
		})
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "error", body["status"])
	})

	t.Run("stats", func(t *testing.T) {
		code, body := ts.getJSON(t, "/get_stats")
		require.Equal(t, http.StatusOK, code)
		stats := body["stats"].(map[string]any)
		assert.EqualValues(t, 1, stats["total_entries"])
		assert.EqualValues(t, 60, stats["total_minutes"])
	})

	t.Run("trends rejects bad days", func(t *testing.T) {
		code, _ := ts.getJSON(t, "/get_trends?days=zero")
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("delete by id", func(t *testing.T) {
		_, listBody := ts.getJSON(t, "/get_all_data")
		entry := listBody["data"].([]any)[0].(map[string]any)

		code, body := ts.postJSON(t, "/delete_entry", map[string]any{"id": entry["id"]})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "success", body["status"])

		_, listBody = ts.getJSON(t, "/get_all_data")
		assert.Empty(t, listBody["data"])
	})
}

func TestGoalEndpoints(t *testing.T) {
	ts := newTestServer(t)

	_, _ = ts.postForm(t, "/add_entry", url.Values{
		"date":     {"15-01-2024"},
		"activity": {"Novel"},
		"minutes":  {"90"},
		"category": {"Reading"},
	})

	t.Run("save and recompute", func(t *testing.T) {
		code, body := ts.postJSON(t, "/save_goal", map[string]any{
			"title": "Yearly reading", "type": "category", "category": "Reading",
			"period": "yearly", "target": 1000,
		})
		require.Equal(t, http.StatusOK, code)
		goal := body["goal"].(map[string]any)
		assert.NotEmpty(t, goal["id"])

		code, body = ts.postJSON(t, "/update_goal_progress", nil)
		require.Equal(t, http.StatusOK, code)
		refreshed := body["goals"].([]any)[0].(map[string]any)
		// The test entry is from 2024; a current-year window has no
		// matching rows, so the endpoint wiring is what we assert.
		assert.Contains(t, refreshed, "current_progress")
		assert.Contains(t, refreshed, "progress_percentage")
	})

	t.Run("validation failure is 400", func(t *testing.T) {
		code, body := ts.postJSON(t, "/save_goal", map[string]any{
			"title": "No target", "type": "total_minutes", "period": "weekly",
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Target must be a positive number", body["message"])
	})

	t.Run("delete", func(t *testing.T) {
		_, body := ts.getJSON(t, "/get_goals")
		goal := body["goals"].([]any)[0].(map[string]any)

		code, _ := ts.postJSON(t, "/delete_goal", map[string]any{"id": goal["id"]})
		require.Equal(t, http.StatusOK, code)

		_, body = ts.getJSON(t, "/get_goals")
		assert.Empty(t, body["goals"])
	})
}

func TestReminderEndpoints(t *testing.T) {
	ts := newTestServer(t)

	t.Run("round-trip", func(t *testing.T) {
		code, body := ts.postJSON(t, "/save_reminder", map[string]any{
			"title": "Stand up", "message": "Stretch", "time": "09:00",
			"recurrence": "daily",
		})
		require.Equal(t, http.StatusOK, code)
		saved := body["reminder"].(map[string]any)
		assert.NotEmpty(t, saved["id"])

		_, body = ts.getJSON(t, "/get_reminders")
		stored := body["reminders"].([]any)
		require.Len(t, stored, 1)
		assert.Equal(t, saved["id"], stored[0].(map[string]any)["id"])
	})

	t.Run("bad time is 400", func(t *testing.T) {
		code, body := ts.postJSON(t, "/save_reminder", map[string]any{
			"title": "Broken", "time": "later", "recurrence": "daily",
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Invalid time format (expected HH:MM)", body["message"])
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		code, _ := ts.postJSON(t, "/delete_reminder", map[string]any{"id": "never-existed"})
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("motivation settings", func(t *testing.T) {
		code, body := ts.postJSON(t, "/save_motivation_settings", map[string]any{
			"enabled": true, "interval_minutes": 240, "messages": []string{"A", "B"},
		})
		require.Equal(t, http.StatusOK, code)
		settings := body["settings"].(map[string]any)
		assert.EqualValues(t, 0, settings["last_index"])

		code, body = ts.getJSON(t, "/get_motivation_settings")
		require.Equal(t, http.StatusOK, code)
		settings = body["settings"].(map[string]any)
		assert.Equal(t, true, settings["enabled"])
	})
}

func TestNotificationEndpoints(t *testing.T) {
	ts := newTestServer(t)

	t.Run("defaults to enabled", func(t *testing.T) {
		code, body := ts.getJSON(t, "/get_notification_settings")
		require.Equal(t, http.StatusOK, code)
		settings := body["settings"].(map[string]any)
		assert.Equal(t, true, settings["enabled"])
	})

	t.Run("save disable", func(t *testing.T) {
		code, _ := ts.postJSON(t, "/save_notification_settings", map[string]any{"enabled": false})
		require.Equal(t, http.StatusOK, code)

		_, body := ts.getJSON(t, "/get_notification_settings")
		settings := body["settings"].(map[string]any)
		assert.Equal(t, false, settings["enabled"])
	})

	t.Run("test notification defaults reach the sink", func(t *testing.T) {
		code, body := ts.postJSON(t, "/trigger_test_notification", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "success", body["status"])
		require.Len(t, ts.sink.sends, 1)
		assert.Equal(t, "Test Notification: Notifications are working", ts.sink.sends[0])
	})

	t.Run("test notification uses provided title and message", func(t *testing.T) {
		code, body := ts.postJSON(t, "/trigger_test_notification", map[string]any{
			"title": "Custom Title", "message": "Custom Body",
		})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "Custom Title: Custom Body", ts.sink.sends[len(ts.sink.sends)-1])
	})

	t.Run("test notification fails when no mechanism exists", func(t *testing.T) {
		ts.sink.err = notify.ErrUnavailable
		defer func() { ts.sink.err = nil }()

		code, body := ts.postJSON(t, "/trigger_test_notification", nil)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "error", body["status"])
	})
}

func TestTodoEndpoints(t *testing.T) {
	ts := newTestServer(t)

	code, body := ts.postJSON(t, "/save_todo", map[string]any{"text": "Buy milk"})
	require.Equal(t, http.StatusOK, code)
	saved := body["todo"].(map[string]any)
	assert.NotEmpty(t, saved["id"])

	code, body = ts.postJSON(t, "/save_todo", map[string]any{
		"id": saved["id"], "text": "Buy milk", "done": true,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["todo"].(map[string]any)["done"])

	code, _ = ts.postJSON(t, "/delete_todo", map[string]any{"id": saved["id"]})
	require.Equal(t, http.StatusOK, code)

	_, body = ts.getJSON(t, "/get_todos")
	assert.Empty(t, body["todos"])
}

func TestReportEndpoints(t *testing.T) {
	ts := newTestServer(t)

	t.Run("runs a configured script", func(t *testing.T) {
		code, body := ts.postJSON(t, "/generate_report", map[string]any{"name": "weekly"})
		require.Equal(t, http.StatusOK, code)
		report := body["report"].(map[string]any)
		assert.Equal(t, "weekly summary\n", report["output"])
	})

	t.Run("unknown report is 404", func(t *testing.T) {
		code, body := ts.postJSON(t, "/generate_report", map[string]any{"name": "monthly"})
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "error", body["status"])
	})

	t.Run("missing name is 400", func(t *testing.T) {
		code, _ := ts.postJSON(t, "/generate_report", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
