// Package prefs stores client-side preferences in a small YAML file.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Prefs are the persisted client preferences.
type Prefs struct {
	Model string `yaml:"model,omitempty"`
}

// Store is a file-backed Prefs. The file is read once by Open and
// rewritten only when a value changes.
type Store struct {
	mu    sync.Mutex
	path  string
	prefs Prefs
}

// Open loads the preferences at path. A missing file yields empty prefs.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prefs: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.prefs); err != nil {
		return nil, fmt.Errorf("failed to parse prefs %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns a copy of the current preferences.
func (s *Store) Get() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// Model returns the selected model, or "" if none was saved.
func (s *Store) Model() string {
	return s.Get().Model
}

// SetModel saves the selected model.
func (s *Store) SetModel(model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs.Model == model {
		return nil
	}
	next := s.prefs
	next.Model = model
	if err := s.write(next); err != nil {
		return err
	}
	s.prefs = next
	return nil
}

func (s *Store) write(p Prefs) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create prefs directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".prefs-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	return nil
}
