package goals

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/ledger"
	"github.com/fyrsmithlabs/trackd/internal/storage"
)

// Service provides goal CRUD and progress recomputation over a JSON
// document store.
type Service struct {
	path   string
	logger *zap.Logger

	mu sync.Mutex
}

// NewService creates a goal service persisting to path.
func NewService(path string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{path: path, logger: logger}
}

// List returns all stored goals. Absent and corrupt files are both an
// empty list; corruption is logged so first-run and damage stay
// distinguishable in the logs.
func (s *Service) List() ([]Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(), nil
}

// Save creates or updates a goal. New goals get a fresh id and creation
// timestamp; updates are matched by id.
func (s *Service) Save(g Goal) (Goal, error) {
	if err := g.Validate(); err != nil {
		return Goal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.loadLocked()

	if g.ID == "" {
		g.ID = uuid.NewString()
		g.CreatedAt = time.Now()
		stored = append(stored, g)
	} else {
		found := false
		for i := range stored {
			if stored[i].ID == g.ID {
				g.CreatedAt = stored[i].CreatedAt
				stored[i] = g
				found = true
				break
			}
		}
		if !found {
			return Goal{}, fmt.Errorf("goal %s not found", g.ID)
		}
	}

	if err := storage.SaveJSON(s.path, stored); err != nil {
		return Goal{}, err
	}
	return g, nil
}

// Delete removes a goal by id. Deleting an unknown id is a no-op.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.loadLocked()
	kept := stored[:0]
	for _, g := range stored {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(stored) {
		return nil
	}
	return storage.SaveJSON(s.path, kept)
}

// RecomputeAll refreshes progress for every stored goal against the
// ledger and persists the result. A goal whose computation fails is
// left unchanged; the rest still update.
func (s *Service) RecomputeAll(entries []ledger.Entry, now time.Time) ([]Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.loadLocked()
	for i := range stored {
		progress, err := ComputeProgress(stored[i], entries, now)
		if err != nil {
			s.logger.Error("failed to recompute goal progress",
				zap.String("goal_id", stored[i].ID),
				zap.String("title", stored[i].Title),
				zap.Error(err))
			continue
		}
		stored[i].CurrentProgress = progress
		stored[i].ProgressPercentage = Percentage(progress, stored[i].Target)
	}

	if err := storage.SaveJSON(s.path, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *Service) loadLocked() []Goal {
	var stored []Goal
	err := storage.LoadJSON(s.path, &stored)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotExist):
	case storage.IsCorrupt(err):
		s.logger.Error("goals document is corrupt, starting from empty", zap.Error(err))
		stored = nil
	default:
		s.logger.Error("failed to load goals", zap.Error(err))
		stored = nil
	}
	return stored
}
