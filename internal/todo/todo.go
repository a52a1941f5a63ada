// Package todo stores the to-do item list.
package todo

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/storage"
)

// Item is one to-do entry.
type Item struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Validate checks the item.
func (i Item) Validate() error {
	if i.Text == "" {
		return fmt.Errorf("Text is required")
	}
	return nil
}

// Service persists to-do items as a JSON array.
type Service struct {
	path   string
	logger *zap.Logger

	mu sync.Mutex
}

// NewService creates a to-do service persisting to path.
func NewService(path string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{path: path, logger: logger}
}

// List returns all stored items.
func (s *Service) List() ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(), nil
}

// Save creates or updates an item. New items get a fresh id and
// creation timestamp; updates are matched by id.
func (s *Service) Save(item Item) (Item, error) {
	if err := item.Validate(); err != nil {
		return Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.loadLocked()

	if item.ID == "" {
		item.ID = uuid.NewString()
		item.CreatedAt = time.Now()
		stored = append(stored, item)
	} else {
		found := false
		for i := range stored {
			if stored[i].ID == item.ID {
				item.CreatedAt = stored[i].CreatedAt
				stored[i] = item
				found = true
				break
			}
		}
		if !found {
			return Item{}, fmt.Errorf("todo %s not found", item.ID)
		}
	}

	if err := storage.SaveJSON(s.path, stored); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Delete removes an item by id. Unknown ids are a no-op.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.loadLocked()
	kept := stored[:0]
	for _, item := range stored {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(stored) {
		return nil
	}
	return storage.SaveJSON(s.path, kept)
}

func (s *Service) loadLocked() []Item {
	var stored []Item
	err := storage.LoadJSON(s.path, &stored)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotExist):
	case storage.IsCorrupt(err):
		s.logger.Error("todos document is corrupt, starting from empty", zap.Error(err))
		stored = nil
	default:
		s.logger.Error("failed to load todos", zap.Error(err))
		stored = nil
	}
	return stored
}
