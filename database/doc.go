// Package database connects foldery to its metadata backends.
//
// # Supported Backends
//
//   - postgres: pgx connection pool, JSONB collection columns
//   - sqlite: modernc.org/sqlite, JSON text columns
//   - badger: embedded BadgerDB key-value store, no schema
//   - memory: process-local map, for tests and throwaway runs
//
// # Usage
//
//	cfg := database.Config{
//	    Type:   "sqlite",
//	    DSN:    "foldery.db",
//	    Tables: foldery.Tables{Folders: "folders"},
//	}
//
//	repo, cleanup, err := database.Open(ctx, cfg, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
//
// Open pings the backend, runs migrations when asked to, validates the
// schema and returns a ready-to-use foldery.FolderRepo. Connect returns the
// Database itself for callers that drive those steps, such as the migrate
// command.
package database
