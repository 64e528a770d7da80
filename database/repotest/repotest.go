// Package repotest holds the behavior every foldery.FolderRepo backend must
// share. Backend packages call Run from their own tests.
package repotest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sagarc03/foldery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewRepoFunc returns an empty repo. It is called once per subtest.
type NewRepoFunc func(t *testing.T) foldery.FolderRepo

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// NewFolder returns a folder with a fresh id and a CreatedAt offset from a
// fixed base so scan order is predictable.
func NewFolder(owner, name string, offset int) foldery.Folder {
	return foldery.Folder{
		ID:        uuid.New(),
		Owner:     owner,
		Name:      name,
		Type:      foldery.DefaultFolderType,
		CreatedAt: base.Add(time.Duration(offset) * time.Millisecond),
		UpdatedAt: base.Add(time.Duration(offset) * time.Millisecond),
	}.Normalize()
}

func Run(t *testing.T, newRepo NewRepoFunc) {
	t.Helper()

	t.Run("get missing returns not found", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Get(context.Background(), uuid.New())
		assert.ErrorIs(t, err, foldery.ErrNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		child := uuid.New()
		f := NewFolder("u1", "Q1", 0)
		f.Type = "invoices"
		f.SubFolders = []uuid.UUID{child}
		f.RequiredFiles = []foldery.RequiredFile{{Name: "w2.pdf", ContentType: "application/pdf"}}
		f.Files = map[string]foldery.FileInfo{"w2.pdf": {Key: "w2.pdf", SizeBytes: 42}}

		require.NoError(t, repo.Put(ctx, f))

		got, err := repo.Get(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, f.ID, got.ID)
		assert.Equal(t, "u1", got.Owner)
		assert.Equal(t, "Q1", got.Name)
		assert.Equal(t, "invoices", got.Type)
		assert.Equal(t, []uuid.UUID{child}, got.SubFolders)
		assert.Equal(t, f.RequiredFiles, got.RequiredFiles)
		require.Contains(t, got.Files, "w2.pdf")
		assert.Equal(t, int64(42), got.Files["w2.pdf"].SizeBytes)
		assert.WithinDuration(t, f.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("put returns empty collections", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		f := foldery.Folder{ID: uuid.New(), Owner: "u1", Name: "bare", Type: "default"}
		require.NoError(t, repo.Put(ctx, f))

		got, err := repo.Get(ctx, f.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.SubFolders)
		assert.Empty(t, got.SubFolders)
		assert.NotNil(t, got.RequiredFiles)
		assert.NotNil(t, got.Files)
		assert.False(t, got.CreatedAt.IsZero(), "created_at should be filled in")
	})

	t.Run("put replaces existing record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		f := NewFolder("u1", "old", 0)
		require.NoError(t, repo.Put(ctx, f))

		f.Name = "new"
		f.SubFolders = []uuid.UUID{uuid.New(), uuid.New()}
		require.NoError(t, repo.Put(ctx, f))

		got, err := repo.Get(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, "new", got.Name)
		assert.Len(t, got.SubFolders, 2)
	})

	t.Run("update fields changes only supplied fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		f := NewFolder("u1", "Q1", 0)
		f.SubFolders = []uuid.UUID{uuid.New()}
		require.NoError(t, repo.Put(ctx, f))

		newType := "tax"
		updated, err := repo.UpdateFields(ctx, f.ID, foldery.FolderPatch{Type: &newType})
		require.NoError(t, err)
		assert.Equal(t, "tax", updated.Type)
		assert.Equal(t, "Q1", updated.Name)
		assert.Equal(t, f.SubFolders, updated.SubFolders)

		got, err := repo.Get(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, "tax", got.Type)
		assert.Equal(t, "Q1", got.Name)
		assert.Equal(t, f.SubFolders, got.SubFolders)
	})

	t.Run("update fields replaces lists", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		f := NewFolder("u1", "Q1", 0)
		f.SubFolders = []uuid.UUID{uuid.New()}
		require.NoError(t, repo.Put(ctx, f))

		name := "Q2"
		subs := []uuid.UUID{}
		files := []foldery.RequiredFile{{Name: "a.pdf"}, {Name: "b.csv", Optional: true}}
		updated, err := repo.UpdateFields(ctx, f.ID, foldery.FolderPatch{
			Name:          &name,
			SubFolders:    &subs,
			RequiredFiles: &files,
		})
		require.NoError(t, err)
		assert.Equal(t, "Q2", updated.Name)
		assert.Empty(t, updated.SubFolders)
		assert.Equal(t, files, updated.RequiredFiles)
	})

	t.Run("update fields missing returns not found", func(t *testing.T) {
		repo := newRepo(t)

		name := "x"
		_, err := repo.UpdateFields(context.Background(), uuid.New(), foldery.FolderPatch{Name: &name})
		assert.ErrorIs(t, err, foldery.ErrNotFound)
	})

	t.Run("scan filters by owner and name", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Put(ctx, NewFolder("u1", "a", 0)))
		require.NoError(t, repo.Put(ctx, NewFolder("u1", "b", 1)))
		require.NoError(t, repo.Put(ctx, NewFolder("u2", "a", 2)))

		mine, err := foldery.ScanAll(ctx, repo, foldery.ScanQuery{Owner: "u1"})
		require.NoError(t, err)
		assert.Len(t, mine, 2)
		for _, f := range mine {
			assert.Equal(t, "u1", f.Owner)
		}

		named, err := foldery.ScanAll(ctx, repo, foldery.ScanQuery{Owner: "u1", Name: "a"})
		require.NoError(t, err)
		require.Len(t, named, 1)
		assert.Equal(t, "a", named[0].Name)

		none, err := foldery.ScanAll(ctx, repo, foldery.ScanQuery{Owner: "u3"})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("scan pages through every record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		want := map[uuid.UUID]bool{}
		for i := range 7 {
			f := NewFolder("u1", fmt.Sprintf("f%d", i), i)
			require.NoError(t, repo.Put(ctx, f))
			want[f.ID] = true
			require.NoError(t, repo.Put(ctx, NewFolder("other", fmt.Sprintf("o%d", i), 100+i)))
		}

		first, err := repo.Scan(ctx, foldery.ScanQuery{Owner: "u1", Limit: 2})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(first.Items), 2)
		assert.NotEmpty(t, first.NextCursor, "more pages should remain")

		all, err := foldery.ScanAll(ctx, repo, foldery.ScanQuery{Owner: "u1", Limit: 2})
		require.NoError(t, err)
		require.Len(t, all, 7)
		for _, f := range all {
			assert.True(t, want[f.ID], "unexpected folder %s", f.ID)
		}
	})

	t.Run("scan rejects invalid cursor", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Scan(context.Background(), foldery.ScanQuery{Owner: "u1", Cursor: "not-valid-base64!!!"})
		assert.Error(t, err)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		f := NewFolder("u1", "gone", 0)
		require.NoError(t, repo.Put(ctx, f))

		require.NoError(t, repo.Delete(ctx, f.ID))
		require.NoError(t, repo.Delete(ctx, f.ID))

		_, err := repo.Get(ctx, f.ID)
		assert.ErrorIs(t, err, foldery.ErrNotFound)
	})

	t.Run("cancelled context", func(t *testing.T) {
		repo := newRepo(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := repo.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, context.Canceled)
	})
}
