// Package blob abstracts binary storage for uploaded episode audio. The
// pipeline treats the store as an opaque capability: bytes in, URL out.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PutResult describes a stored object.
type PutResult struct {
	URL  string
	Size int64
}

// Store persists uploaded audio so downstream providers can address it.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader, contentType string) (PutResult, error)
}

// LocalStore keeps objects on the local filesystem. It is the default store
// for development and tests.
type LocalStore struct {
	Dir string
}

// NewLocalStore creates a filesystem-backed store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir}
}

// Put writes the object under the store directory and returns a file:// URL.
func (s *LocalStore) Put(_ context.Context, name string, r io.Reader, _ string) (PutResult, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return PutResult{}, fmt.Errorf("failed to create blob dir: %w", err)
	}

	path := filepath.Join(s.Dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return PutResult{}, fmt.Errorf("failed to create blob file: %w", err)
	}

	size, err := io.Copy(f, r)
	closeErr := f.Close()
	if err != nil {
		_ = os.Remove(path)
		return PutResult{}, fmt.Errorf("failed to write blob: %w", err)
	}
	if closeErr != nil {
		_ = os.Remove(path)
		return PutResult{}, fmt.Errorf("failed to finalize blob: %w", closeErr)
	}

	return PutResult{URL: "file://" + path, Size: size}, nil
}
