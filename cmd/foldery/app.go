package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sagarc03/foldery"
	"github.com/sagarc03/foldery/config"
	"github.com/sagarc03/foldery/database"
	"github.com/sagarc03/foldery/storage"
)

// newService connects the configured backends and builds the folder service.
// The returned cleanup releases both backends.
func newService(ctx context.Context, cfg *config.Config) (*foldery.FolderService, func(), error) {
	repo, closeDB, err := database.Open(ctx, cfg.Database.Config, cfg.Database.AutoMigrate)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	slog.Info("connected to database", "type", cfg.Database.Type)

	buckets, closeStorage, err := storage.New(ctx, cfg.Storage.Config)
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	slog.Info("connected to storage", "type", cfg.Storage.Type)

	cleanup := func() {
		closeStorage()
		closeDB()
	}

	service, err := foldery.NewFolderService(repo, buckets, foldery.ServiceConfig{
		DefaultType:       cfg.Service.DefaultType,
		BucketPrefix:      cfg.Storage.BucketPrefix,
		CascadeParentRefs: cfg.Service.CascadeParentRefs,
		ScanLimit:         cfg.Service.ScanLimit,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create service: %w", err)
	}

	return service, cleanup, nil
}
