// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/example/wardnotes/internal/errs"
	"github.com/example/wardnotes/internal/ports/secondary"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// Store implements secondary.FileStore on the local disk.
type Store struct{}

// NewStore creates a new local disk store.
func NewStore() *Store {
	return &Store{}
}

// ReadFile returns the file content, or nil if the file does not exist.
func (s *Store) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.IO("read file", path, err)
	}
	return data, nil
}

// WriteFile writes content, creating parent directories as needed.
// The content goes to a temporary sibling first and is renamed into place.
func (s *Store) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return errs.IO("create directory", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errs.IO("write file", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errs.IO("write file", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errs.IO("write file", path, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		os.Remove(tmpName)
		return errs.IO("write file", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errs.IO("write file", path, err)
	}
	return nil
}

// Mkdir creates a directory with all parent directories.
func (s *Store) Mkdir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(path, dirPerm); err != nil {
		return errs.IO("create directory", path, err)
	}
	return nil
}

// RemoveAll removes a directory and all contents.
func (s *Store) RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		return errs.IO("remove directory", path, err)
	}
	return nil
}

// Remove removes a single file or an empty directory.
func (s *Store) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.IO("remove", path, err)
	}
	return nil
}

// ListFiles returns the sorted names of regular files in dir.
func (s *Store) ListFiles(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.IO("list directory", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// ListEntries returns the sorted names of every entry in dir.
func (s *Store) ListEntries(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.IO("list directory", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

// Exists checks if a path exists.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errs.IO("check path", path, err)
	}
	return true, nil
}

// Ensure Store implements the interface
var _ secondary.FileStore = (*Store)(nil)
