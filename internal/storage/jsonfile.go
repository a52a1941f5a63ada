// Package storage persists trackd's JSON documents.
//
// A missing file and an unreadable file are distinct error kinds so that
// callers can tell first-run apart from corruption. Saves keep a .bak
// copy of the previous content and go through a temp file + rename so a
// crash mid-write never leaves a truncated document behind.
//
// Serialization of concurrent writers is the owning service's job; this
// package only guarantees each individual write is atomic.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNotExist reports that the document has never been written.
var ErrNotExist = errors.New("document does not exist")

// CorruptError reports that the document exists but could not be decoded.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt document %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// IsCorrupt returns true if err is a CorruptError.
func IsCorrupt(err error) bool {
	var ce *CorruptError
	return errors.As(err, &ce)
}

// LoadJSON decodes the document at path into v.
//
// Returns ErrNotExist when the file is absent and a *CorruptError when
// it exists but cannot be decoded.
func LoadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotExist
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return &CorruptError{Path: path, Err: err}
	}
	return nil
}

// SaveJSON encodes v and atomically replaces the document at path.
//
// The previous content, if any, is copied to path+".bak" first.
func SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if prev, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+".bak", prev, 0600); err != nil {
			return fmt.Errorf("writing backup for %s: %w", path, err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
