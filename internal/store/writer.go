package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// AtomicWriter reads and replaces whole files.
type AtomicWriter interface {
	// Read returns the file content, or nil and no error when the file does not exist.
	Read(path string) ([]byte, error)

	// Write replaces path with content. After a successful return the file
	// holds exactly content; after a failure it still holds its old content.
	Write(path string, content []byte) error

	// StagingPath names the temporary file Write uses before renaming it over path.
	StagingPath(path string) string
}

// FileWriter is the default AtomicWriter. It writes "<path>.bak", syncs it
// and renames it over path.
type FileWriter struct {
	// Perm is the mode of newly written files. Zero means 0600.
	Perm os.FileMode
}

// Read implements AtomicWriter.
func (w FileWriter) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// StagingPath implements AtomicWriter.
func (w FileWriter) StagingPath(path string) string {
	return path + ".bak"
}

// Write implements AtomicWriter.
func (w FileWriter) Write(path string, content []byte) error {
	perm := w.Perm
	if perm == 0 {
		perm = 0600
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	staging := w.StagingPath(path)
	f, err := os.OpenFile(staging, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", staging, err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", staging, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync %s: %w", staging, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", staging, err)
	}

	if err := os.Rename(staging, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
