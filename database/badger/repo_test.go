package badger_test

import (
	"context"
	"testing"

	"github.com/sagarc03/foldery"
	"github.com/sagarc03/foldery/database/badger"
	"github.com/sagarc03/foldery/database/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) foldery.FolderRepo {
	t.Helper()

	db, err := badger.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db.GetRepo()
}

func TestRepo(t *testing.T) {
	repotest.Run(t, newRepo)
}

func TestRepo_ScanPagesCanBeShort(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	for i := range 10 {
		require.NoError(t, repo.Put(ctx, repotest.NewFolder("other", "x", i)))
	}
	mine := repotest.NewFolder("u1", "mine", 20)
	require.NoError(t, repo.Put(ctx, mine))

	pages := 0
	var found []foldery.Folder
	q := foldery.ScanQuery{Owner: "u1", Limit: 3}
	for {
		page, err := repo.Scan(ctx, q)
		require.NoError(t, err)
		pages++
		found = append(found, page.Items...)
		if page.NextCursor == "" {
			break
		}
		q.Cursor = page.NextCursor
	}

	assert.Equal(t, 4, pages, "11 records examined 3 at a time")
	require.Len(t, found, 1)
	assert.Equal(t, mine.ID, found[0].ID)
}

func TestOpen_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := badger.Open(dir)
	require.NoError(t, err)

	f := repotest.NewFolder("u1", "persisted", 0)
	require.NoError(t, db.GetRepo().Put(ctx, f))
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Validate(ctx))
	require.NoError(t, db.Ping(ctx))
	require.NoError(t, db.Close())

	reopened, err := badger.Open(dir)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetRepo().Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Name)
}
