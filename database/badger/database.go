package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sagarc03/foldery"
)

type database struct {
	db *badger.DB
}

// Open opens the BadgerDB directory at path. An empty path keeps the
// database in memory, which only suits tests and throwaway runs.
func Open(path string) (*database, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}

	return &database{db: db}, nil
}

// Ping reports whether the database is still open.
func (d *database) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.db.IsClosed() {
		return errors.New("ping badger: database is closed")
	}
	return nil
}

// Migrate is a no-op: the key space needs no schema.
func (d *database) Migrate(context.Context) error {
	return nil
}

// Validate is a no-op: the key space needs no schema.
func (d *database) Validate(context.Context) error {
	return nil
}

func (d *database) GetRepo() foldery.FolderRepo {
	return &repo{db: d.db}
}

func (d *database) Close() error {
	return d.db.Close()
}
