package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound reports that no entry matched the given id or index.
var ErrNotFound = errors.New("entry not found")

// Store is the mutex-guarded CSV-backed ledger.
//
// Every mutation rewrites the whole file under the lock; readers serve
// from an in-memory cache that is invalidated on writes and by the data
// directory watcher when the file changes externally.
type Store struct {
	path   string
	logger *zap.Logger

	mu     sync.RWMutex
	cache  []Entry
	loaded bool
}

// NewStore creates a ledger store for the given CSV path.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// List returns all entries in insertion order.
// A missing ledger file is an empty ledger, never an error.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

// Append validates the entry, assigns it a fresh id, and appends it to
// the ledger.
func (s *Store) Append(e Entry) (Entry, error) {
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	e.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.listLocked()
	if err != nil {
		return Entry{}, err
	}
	entries = append(entries, e)
	if err := s.writeLocked(entries); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Update replaces the entry identified by id (preferred) or zero-based
// index. The stored id is retained regardless of what the caller sent.
func (s *Store) Update(id string, index int, e Entry) (Entry, error) {
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.listLocked()
	if err != nil {
		return Entry{}, err
	}

	pos, err := s.resolveLocked(entries, id, index)
	if err != nil {
		return Entry{}, err
	}

	e.ID = entries[pos].ID
	entries[pos] = e
	if err := s.writeLocked(entries); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Delete removes the entry identified by id (preferred) or zero-based
// index.
func (s *Store) Delete(id string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.listLocked()
	if err != nil {
		return err
	}

	pos, err := s.resolveLocked(entries, id, index)
	if err != nil {
		return err
	}

	entries = append(entries[:pos], entries[pos+1:]...)
	return s.writeLocked(entries)
}

// Invalidate drops the in-memory cache, forcing a re-read on next access.
// Called by the data directory watcher after external modifications.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.cache = nil
}

// resolveLocked maps an id or index to a position in entries.
// An id, when present, takes precedence over the positional index.
func (s *Store) resolveLocked(entries []Entry, id string, index int) (int, error) {
	if id != "" {
		for i := range entries {
			if entries[i].ID == id {
				return i, nil
			}
		}
		return 0, ErrNotFound
	}
	if index < 0 || index >= len(entries) {
		return 0, ErrNotFound
	}
	return index, nil
}

func (s *Store) listLocked() ([]Entry, error) {
	if !s.loaded {
		if err := s.loadLocked(); err != nil {
			return nil, err
		}
	}
	out := make([]Entry, len(s.cache))
	copy(out, s.cache)
	return out, nil
}

func (s *Store) loadLocked() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.cache = nil
			s.loaded = true
			return nil
		}
		return fmt.Errorf("opening ledger %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("parsing ledger %s: %w", s.path, err)
	}

	entries := make([]Entry, 0, len(records))
	migrated := false
	for i, rec := range records {
		e, err := entryFromRecord(rec)
		if err != nil {
			// One bad row must not take the whole ledger down.
			s.logger.Warn("skipping malformed ledger row",
				zap.Int("line", i+1),
				zap.Error(err))
			continue
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
			migrated = true
		}
		entries = append(entries, e)
	}

	s.cache = entries
	s.loaded = true

	// Persist synthesized ids so they stay stable across restarts.
	if migrated {
		if err := s.writeLocked(entries); err != nil {
			return fmt.Errorf("migrating legacy ledger rows: %w", err)
		}
		s.logger.Info("assigned ids to legacy ledger rows", zap.Int("entries", len(entries)))
	}

	return nil
}

func (s *Store) writeLocked(entries []Entry) error {
	if prev, err := os.ReadFile(s.path); err == nil {
		if err := os.WriteFile(s.path+".bak", prev, 0600); err != nil {
			return fmt.Errorf("writing ledger backup: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	for _, e := range entries {
		if err := w.Write(e.record()); err != nil {
			f.Close()
			return fmt.Errorf("writing ledger row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing ledger: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing ledger: %w", err)
	}

	s.cache = make([]Entry, len(entries))
	copy(s.cache, entries)
	s.loaded = true
	return nil
}
