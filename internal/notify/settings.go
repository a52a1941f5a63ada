package notify

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/storage"
)

// Settings is the persisted notification toggle. When disabled, the
// scheduler still runs but skips delivery entirely.
type Settings struct {
	Enabled bool `json:"enabled"`
}

// SettingsStore persists the notification settings document.
type SettingsStore struct {
	path   string
	logger *zap.Logger

	mu sync.Mutex
}

// NewSettingsStore creates a settings store at path.
func NewSettingsStore(path string, logger *zap.Logger) *SettingsStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsStore{path: path, logger: logger}
}

// Get returns the stored settings. An absent document defaults to
// enabled so a fresh install delivers notifications.
func (s *SettingsStore) Get() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var settings Settings
	err := storage.LoadJSON(s.path, &settings)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotExist):
		settings = Settings{Enabled: true}
	case storage.IsCorrupt(err):
		s.logger.Error("notification settings corrupt, defaulting to enabled", zap.Error(err))
		settings = Settings{Enabled: true}
	default:
		s.logger.Error("failed to load notification settings", zap.Error(err))
		settings = Settings{Enabled: true}
	}
	return settings, nil
}

// Save persists the settings.
func (s *SettingsStore) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.SaveJSON(s.path, settings)
}
