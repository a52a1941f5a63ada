package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/todo"
)

// handleGetTodos returns all to-do items.
func (s *Server) handleGetTodos(c echo.Context) error {
	items, err := s.deps.Todos.List()
	if err != nil {
		s.logger.Error("failed to list todos", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to load todos")
	}
	if items == nil {
		items = []todo.Item{}
	}
	return success(c, Envelope{"todos": items})
}

// handleSaveTodo creates or updates a to-do item.
func (s *Server) handleSaveTodo(c echo.Context) error {
	var item todo.Item
	if err := c.Bind(&item); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	saved, err := s.deps.Todos.Save(item)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return success(c, Envelope{"todo": saved})
}

// handleDeleteTodo removes a to-do item by id.
func (s *Server) handleDeleteTodo(c echo.Context) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	if err := s.deps.Todos.Delete(req.ID); err != nil {
		s.logger.Error("failed to delete todo", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "failed to delete todo")
	}
	return success(c, nil)
}
