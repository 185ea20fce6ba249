// Package store persists named JSON collections in a per-user data directory.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// AppName names the per-user data directory
const AppName = "MarkView"

// Store reads and writes one JSON file per named collection.
// There are no transactions across files.
type Store struct {
	dir    string
	logger logrus.FieldLogger
}

// DefaultDir returns the per-user application data directory
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// New creates a store rooted at dir, creating the directory if needed
func New(dir string, logger logrus.FieldLogger) (*Store, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the storage directory
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the backing file for a named collection
func (s *Store) Path(name string) string {
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	return filepath.Join(s.dir, name)
}

// Load reads the named collection. It reports false when the file is missing,
// blank, unreadable or not valid JSON for T.
func Load[T any](s *Store, name string) (T, bool) {
	var zero T
	path := s.Path(name)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.WithError(err).WithField("path", path).Warn("could not read data file")
		}
		return zero, false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return zero, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.WithError(err).WithField("path", path).Warn("ignoring unreadable data file")
		return zero, false
	}

	s.logger.WithField("path", path).Debug("loaded data file")
	return v, true
}

// Save serializes v and replaces the named collection's file
func (s *Store) Save(name string, v any) error {
	path := s.Path(name)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := atomicWriteFile(s.dir, "."+filepath.Base(path)+".*.tmp", path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	s.logger.WithField("path", path).Debug("saved data file")
	return nil
}

// Exists reports whether the named collection has a backing file
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Delete removes the named collection. A missing file is not an error.
func (s *Store) Delete(name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
