// Package store persists the scraped event collection and serves it to readers.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
)

// ErrNotFound is returned when the events document does not exist yet.
var ErrNotFound = errors.New("events document not found")

// JSONStore keeps the collection as a single JSON array document on disk.
type JSONStore struct {
	path string
}

// NewJSONStore creates a store backed by the file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the document location.
func (s *JSONStore) Path() string { return s.path }

// Load reads the whole collection. A missing document yields ErrNotFound.
func (s *JSONStore) Load(_ context.Context) ([]domain.Event, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", s.path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}

	var events []domain.Event
	if err := json.Unmarshal(b, &events); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}

// Save replaces the document with events. The new document is written to a temporary
// file in the same directory and renamed into place, so readers never see a partial file.
func (s *JSONStore) Save(_ context.Context, events []domain.Event) error {
	if events == nil {
		events = []domain.Event{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(events); err != nil {
		return fmt.Errorf("encode events: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck,gosec // sync error takes precedence
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // document is world-readable
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// ModTime returns the modification time of the document.
func (s *JSONStore) ModTime() (time.Time, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", s.path, err)
	}
	return info.ModTime(), nil
}
