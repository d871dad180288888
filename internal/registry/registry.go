// Package registry manages flat directories of named files: uploaded
// artifacts and persisted playlists.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store is one flat directory. Names are caller supplied and case
// sensitive; writing an existing name overwrites it.
type Store struct {
	dir string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureDir creates the store directory if it doesn't exist.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}
	return nil
}

// ValidateName rejects names that would escape the directory or address
// the directory itself.
func ValidateName(name string) error {
	switch {
	case name == "":
		return &InvalidNameError{Name: name, Reason: "empty"}
	case name == "." || name == "..":
		return &InvalidNameError{Name: name, Reason: "reserved"}
	case strings.ContainsAny(name, `/\`):
		return &InvalidNameError{Name: name, Reason: "contains a path separator"}
	case strings.ContainsRune(name, 0):
		return &InvalidNameError{Name: name, Reason: "contains NUL"}
	}
	return nil
}

// Path returns the full path for name.
func (s *Store) Path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// Create opens name for writing, truncating any previous content.
func (s *Store) Create(name string) (*os.File, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return f, nil
}

// WriteFile stores data under name and returns the written path.
func (s *Store) WriteFile(name string, data []byte) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// Delete removes name. A missing file yields *NotFoundError.
func (s *Store) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Name: name}
		}
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// List returns the names of regular entries ending in ext. Subdirectories
// are not descended into. A missing directory lists as empty.
func (s *Store) List(ext string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.dir, err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
