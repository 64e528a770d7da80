// Package memory provides a process-local bucket backend.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/sagarc03/foldery"
)

type Store struct {
	mu      sync.RWMutex
	buckets map[string]struct{}
}

func NewStore() *Store {
	return &Store{buckets: make(map[string]struct{})}
}

func (s *Store) BucketExists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.buckets[name]
	return ok, nil
}

func (s *Store) CreateBucket(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[name]; ok {
		return fmt.Errorf("create bucket %s: %w", name, foldery.ErrAlreadyExists)
	}
	s.buckets[name] = struct{}{}
	return nil
}

func (s *Store) DeleteBucket(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[name]; !ok {
		return fmt.Errorf("delete bucket %s: %w", name, foldery.ErrNotFound)
	}
	delete(s.buckets, name)
	return nil
}

// Buckets returns the sorted names of all buckets.
func (s *Store) Buckets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.buckets))
}
