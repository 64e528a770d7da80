// Package filesystem provides a directory-per-bucket storage backend.
// Every bucket is a directory directly under the root; removing a bucket
// that still holds files fails, like it does on S3.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sagarc03/foldery"
)

// Store provides bucket operations on a local directory.
type Store struct {
	root *os.Root
}

// NewFileStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root) *Store {
	return &Store{root: root}
}

// Open opens (and creates if needed) dir and returns a Store on it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open filesystem storage: %w", err)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open filesystem storage: %w", err)
	}

	return NewFileStorage(root), nil
}

// BucketExists reports whether a bucket directory exists.
func (s *Store) BucketExists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	info, err := s.root.Stat(name)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat bucket: %w", err)
	}

	if !info.IsDir() {
		return false, fmt.Errorf("stat bucket: %s is not a directory", name)
	}

	return true, nil
}

// CreateBucket creates the bucket directory. Returns foldery.ErrAlreadyExists
// if it is already there.
func (s *Store) CreateBucket(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.root.Mkdir(name, 0o755)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("create bucket %s: %w", name, foldery.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}

	return nil
}

// DeleteBucket removes an empty bucket directory. Returns foldery.ErrNotFound
// if it does not exist.
func (s *Store) DeleteBucket(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.root.Remove(name)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete bucket %s: %w", name, foldery.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete bucket: %w", err)
	}

	return nil
}

// Close releases the root directory handle.
func (s *Store) Close() error {
	return s.root.Close()
}
