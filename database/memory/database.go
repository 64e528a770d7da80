package memory

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/sagarc03/foldery"
)

type database struct {
	repo   *Repo
	closed atomic.Bool
}

// Open returns a database holding one process-local Repo.
func Open(opts ...Option) *database {
	return &database{repo: NewRepo(opts...)}
}

func (d *database) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.closed.Load() {
		return errors.New("ping memory: database is closed")
	}
	return nil
}

func (d *database) Migrate(context.Context) error { return nil }

func (d *database) Validate(context.Context) error { return nil }

func (d *database) GetRepo() foldery.FolderRepo {
	return d.repo
}

func (d *database) Close() error {
	d.closed.Store(true)
	return nil
}
