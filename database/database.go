package database

import (
	"context"
	"fmt"

	"github.com/sagarc03/foldery"
	"github.com/sagarc03/foldery/database/badger"
	"github.com/sagarc03/foldery/database/memory"
	"github.com/sagarc03/foldery/database/postgres"
	"github.com/sagarc03/foldery/database/sqlite"
)

// Config holds the configuration for connecting to a metadata backend.
type Config struct {
	// Type specifies the backend: "sqlite", "postgres", "badger" or "memory"
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres badger memory"`
	// DSN is the connection string, or the directory for badger
	DSN string `mapstructure:"dsn"`
	// Tables names the tables used by SQL backends
	Tables foldery.Tables `mapstructure:"tables"`
}

// Database is a connected metadata backend.
type Database interface {
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Validate(ctx context.Context) error
	GetRepo() foldery.FolderRepo
	Close() error
}

// Connect opens the configured backend. It does not migrate or validate;
// see Open for the usual startup sequence.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	switch cfg.Type {
	case "sqlite", "postgres":
		if err := cfg.Tables.Validate(); err != nil {
			return nil, fmt.Errorf("connect %s: %w", cfg.Type, err)
		}
	}

	var (
		db  Database
		err error
	)

	switch cfg.Type {
	case "sqlite":
		db, err = wrap(sqlite.Connect(ctx, cfg.DSN, cfg.Tables))
	case "postgres":
		db, err = wrap(postgres.Connect(ctx, cfg.DSN, cfg.Tables))
	case "badger":
		db, err = wrap(badger.Open(cfg.DSN))
	case "memory":
		db = memory.Open()
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	return db, nil
}

// wrap keeps a failed constructor's typed nil out of the Database interface.
func wrap[T Database](db T, err error) (Database, error) {
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Open connects, optionally runs migrations, validates the schema and
// returns the repo. The returned cleanup function closes the connection.
func Open(ctx context.Context, cfg Config, autoMigrate bool) (foldery.FolderRepo, func(), error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", cfg.Type, err)
	}

	if autoMigrate {
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate %s: %w", cfg.Type, err)
		}
	}

	if err := db.Validate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("validate %s schema: %w", cfg.Type, err)
	}

	cleanup := func() {
		_ = db.Close()
	}

	return db.GetRepo(), cleanup, nil
}
