package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marlowe/fabula/internal/apperr"
)

// File implements Store with one <key>.json file per collection under a
// data directory. Writes are atomic: tmp file, fsync, rename.
type File struct {
	root string // absolute path to the data directory
}

// NewFile creates a File store rooted at the given directory.
// The directory must already exist.
func NewFile(root string) (*File, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("store: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("store: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("store: root is not a directory: %s", abs)
	}
	return &File{root: abs}, nil
}

// path maps a collection key to its file, rejecting keys that would
// escape the data directory.
func (f *File) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key != filepath.Base(key) {
		return "", fmt.Errorf("store: invalid key: %q", key)
	}
	return filepath.Join(f.root, key+".json"), nil
}

// Get returns the blob stored under key.
func (f *File) Get(key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return data, nil
}

// Put atomically replaces the blob stored under key.
func (f *File) Put(key string, value []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, ".fabula-tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		return fmt.Errorf("store: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("store: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes the blob stored under key, if present.
func (f *File) Delete(key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for the file store.
func (f *File) Close() error { return nil }

// Root returns the absolute data directory, for the external-change watcher.
func (f *File) Root() string { return f.root }

// Verify *File satisfies Store at compile time.
var _ Store = (*File)(nil)
