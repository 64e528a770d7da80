// Package memory provides a process-local FolderRepo.
//
// Scans behave like a key-value table scan: a page examines up to Limit
// records in (created_at, id) order and returns the ones matching the query,
// so pages can be short or empty while a cursor is still returned.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sagarc03/foldery"
	"github.com/sagarc03/foldery/database/internal"
)

type Repo struct {
	mu       sync.RWMutex
	folders  map[uuid.UUID]foldery.Folder
	pageSize int
}

type Option func(*Repo)

// WithPageSize caps how many records a single Scan examines regardless of
// the requested limit.
func WithPageSize(n int) Option {
	return func(r *Repo) {
		r.pageSize = n
	}
}

func NewRepo(opts ...Option) *Repo {
	r := &Repo{folders: make(map[uuid.UUID]foldery.Folder)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (foldery.Folder, error) {
	if err := ctx.Err(); err != nil {
		return foldery.Folder{}, fmt.Errorf("get folder: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.folders[id]
	if !ok {
		return foldery.Folder{}, fmt.Errorf("get folder %s: %w", id, foldery.ErrNotFound)
	}

	return clone(f), nil
}

func (r *Repo) Put(ctx context.Context, folder foldery.Folder) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("put folder: %w", err)
	}

	now := time.Now().UTC()
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = now
	}
	if folder.UpdatedAt.IsZero() {
		folder.UpdatedAt = now
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.folders[folder.ID] = clone(folder)
	return nil
}

func (r *Repo) UpdateFields(ctx context.Context, id uuid.UUID, patch foldery.FolderPatch) (foldery.Folder, error) {
	if err := ctx.Err(); err != nil {
		return foldery.Folder{}, fmt.Errorf("update folder: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.folders[id]
	if !ok {
		return foldery.Folder{}, fmt.Errorf("update folder %s: %w", id, foldery.ErrNotFound)
	}

	f = patch.Apply(f)
	f.UpdatedAt = time.Now().UTC()
	r.folders[id] = clone(f)

	return clone(f), nil
}

func (r *Repo) Scan(ctx context.Context, q foldery.ScanQuery) (foldery.ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return foldery.ScanResult{}, fmt.Errorf("scan folders: %w", err)
	}

	cursor, err := internal.DecodeCursor(q.Cursor)
	if err != nil {
		return foldery.ScanResult{}, fmt.Errorf("scan folders: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = foldery.DefaultScanLimit
	}
	if r.pageSize > 0 && r.pageSize < limit {
		limit = r.pageSize
	}

	r.mu.RLock()
	all := slices.Collect(maps.Values(r.folders))
	r.mu.RUnlock()

	slices.SortFunc(all, func(a, b foldery.Folder) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	result := foldery.ScanResult{Items: []foldery.Folder{}}
	examined := 0
	for i, f := range all {
		if !cursor.After(f.CreatedAt, f.ID.String()) {
			continue
		}

		examined++
		if q.Matches(f) {
			result.Items = append(result.Items, clone(f))
		}

		if examined == limit {
			if i < len(all)-1 {
				result.NextCursor = internal.EncodeCursor(f.CreatedAt, f.ID.String())
			}
			break
		}
	}

	return result, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.folders, id)
	return nil
}

func clone(f foldery.Folder) foldery.Folder {
	f.SubFolders = slices.Clone(f.SubFolders)
	f.RequiredFiles = slices.Clone(f.RequiredFiles)
	f.Files = maps.Clone(f.Files)
	return f.Normalize()
}
