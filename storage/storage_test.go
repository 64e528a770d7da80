package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sagarc03/foldery/storage"
	"github.com/sagarc03/foldery/storage/filesystem"
	"github.com/sagarc03/foldery/storage/memory"
	"github.com/sagarc03/foldery/storage/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("filesystem", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "buckets")

		backend, cleanup, err := storage.New(ctx, storage.Config{
			Type:       "filesystem",
			Filesystem: map[string]any{"path": dir},
		})
		require.NoError(t, err)
		defer cleanup()

		assert.IsType(t, &filesystem.Store{}, backend)
		require.NoError(t, backend.CreateBucket(ctx, "abc"))
		_, err = os.Stat(filepath.Join(dir, "abc"))
		assert.NoError(t, err)
	})

	t.Run("filesystem requires path", func(t *testing.T) {
		_, _, err := storage.New(ctx, storage.Config{Type: "filesystem"})
		assert.ErrorContains(t, err, "path is required")
	})

	t.Run("memory", func(t *testing.T) {
		backend, cleanup, err := storage.New(ctx, storage.Config{Type: "memory"})
		require.NoError(t, err)
		defer cleanup()

		assert.IsType(t, &memory.Store{}, backend)
	})

	t.Run("s3 with static keys", func(t *testing.T) {
		backend, cleanup, err := storage.New(ctx, storage.Config{
			Type: "s3",
			S3: map[string]any{
				"region":            "eu-west-1",
				"endpoint":          "http://localhost:9000",
				"access_key_id":     "key",
				"secret_access_key": "secret",
				"max_retries":       "2",
			},
		})
		require.NoError(t, err)
		defer cleanup()

		assert.IsType(t, &s3.Store{}, backend)
	})

	t.Run("s3 requires region", func(t *testing.T) {
		_, _, err := storage.New(ctx, storage.Config{Type: "s3", S3: map[string]any{}})
		assert.ErrorContains(t, err, "region is required")
	})

	t.Run("unsupported", func(t *testing.T) {
		_, _, err := storage.New(ctx, storage.Config{Type: "ftp"})
		assert.ErrorContains(t, err, "unsupported storage type")
	})
}
