package reminders

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/storage"
)

// Service persists the reminder list and the motivation singleton as
// JSON documents.
type Service struct {
	remindersPath  string
	motivationPath string
	logger         *zap.Logger

	mu sync.Mutex
}

// NewService creates a reminder service over the two document paths.
func NewService(remindersPath, motivationPath string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		remindersPath:  remindersPath,
		motivationPath: motivationPath,
		logger:         logger,
	}
}

// List returns all stored reminders. Absent and corrupt documents both
// read as empty; corruption is logged.
func (s *Service) List() ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadRemindersLocked(), nil
}

// Save creates or updates a reminder. New reminders get a fresh id and
// creation timestamp. Updates are matched by id; updating clears Sent
// so a rescheduled one-shot can fire again.
func (s *Service) Save(r Reminder) (Reminder, error) {
	if err := r.Validate(); err != nil {
		return Reminder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.loadRemindersLocked()

	if r.ID == "" {
		r.ID = uuid.NewString()
		r.CreatedAt = time.Now()
		stored = append(stored, r)
	} else {
		found := false
		for i := range stored {
			if stored[i].ID == r.ID {
				r.CreatedAt = stored[i].CreatedAt
				r.Sent = false
				stored[i] = r
				found = true
				break
			}
		}
		if !found {
			return Reminder{}, fmt.Errorf("reminder %s not found", r.ID)
		}
	}

	if err := storage.SaveJSON(s.remindersPath, stored); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

// Delete removes a reminder by id. Unknown ids are a no-op.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.loadRemindersLocked()
	kept := stored[:0]
	for _, r := range stored {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(stored) {
		return nil
	}
	return storage.SaveJSON(s.remindersPath, kept)
}

// Replace overwrites the full reminder list. The scheduler uses it to
// persist LastSent/Sent mutations after a dispatch pass.
func (s *Service) Replace(list []Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.SaveJSON(s.remindersPath, list)
}

// Motivation returns the stored motivation config. An absent document
// reads as a disabled config rather than an error.
func (s *Service) Motivation() (Motivation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadMotivationLocked(), nil
}

// SaveMotivationSettings applies user-edited settings. Rotation state
// (LastSent, LastIndex) survives a settings save unless the message
// list itself changed, in which case the rotation restarts.
func (s *Service) SaveMotivationSettings(m Motivation) (Motivation, error) {
	if err := m.Validate(); err != nil {
		return Motivation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.loadMotivationLocked()
	if slices.Equal(current.Messages, m.Messages) {
		m.LastSent = current.LastSent
		m.LastIndex = current.LastIndex
	} else {
		m.LastSent = time.Time{}
		m.LastIndex = 0
	}

	if err := storage.SaveJSON(s.motivationPath, m); err != nil {
		return Motivation{}, err
	}
	return m, nil
}

// SaveMotivation persists the config verbatim, rotation state included.
// The scheduler calls this after advancing the rotation.
func (s *Service) SaveMotivation(m Motivation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.SaveJSON(s.motivationPath, m)
}

func (s *Service) loadRemindersLocked() []Reminder {
	var stored []Reminder
	err := storage.LoadJSON(s.remindersPath, &stored)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotExist):
	case storage.IsCorrupt(err):
		s.logger.Error("reminders document is corrupt, starting from empty", zap.Error(err))
		stored = nil
	default:
		s.logger.Error("failed to load reminders", zap.Error(err))
		stored = nil
	}
	return stored
}

func (s *Service) loadMotivationLocked() Motivation {
	var m Motivation
	err := storage.LoadJSON(s.motivationPath, &m)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotExist):
		m = Motivation{}
	case storage.IsCorrupt(err):
		s.logger.Error("motivation document is corrupt, using disabled config", zap.Error(err))
		m = Motivation{}
	default:
		s.logger.Error("failed to load motivation config", zap.Error(err))
		m = Motivation{}
	}
	return m
}
