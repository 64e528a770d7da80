// Package storage builds the bucket backend selected by configuration.
//
// # Supported Backends
//
//   - filesystem: one directory per bucket under a local path
//   - s3: Amazon S3 or an S3-compatible service
//   - memory: process-local, lost on restart
//
// Backend options are free-form maps decoded with mapstructure, so each
// backend owns its option names.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/sagarc03/foldery"
	"github.com/sagarc03/foldery/storage/filesystem"
	"github.com/sagarc03/foldery/storage/memory"
	"github.com/sagarc03/foldery/storage/s3"
)

// Config selects and configures a bucket backend.
type Config struct {
	// Type is "filesystem", "s3" or "memory"
	Type string `mapstructure:"type" validate:"required,oneof=filesystem s3 memory"`
	// Filesystem holds options for the filesystem backend ("path")
	Filesystem map[string]any `mapstructure:"filesystem"`
	// S3 holds options for the s3 backend (see s3.Config)
	S3 map[string]any `mapstructure:"s3"`
}

type filesystemOptions struct {
	Path string `mapstructure:"path"`
}

// New returns the configured backend and a cleanup function releasing it.
func New(ctx context.Context, cfg Config) (foldery.BucketStorage, func(), error) {
	switch cfg.Type {
	case "filesystem":
		return newFilesystem(cfg.Filesystem)
	case "s3":
		return newS3(ctx, cfg.S3)
	case "memory":
		return memory.NewStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

func newFilesystem(options map[string]any) (foldery.BucketStorage, func(), error) {
	var opts filesystemOptions
	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, nil, fmt.Errorf("decode filesystem storage options: %w", err)
	}

	if opts.Path == "" {
		return nil, nil, errors.New("filesystem storage: path is required")
	}

	store, err := filesystem.Open(opts.Path)
	if err != nil {
		return nil, nil, err
	}

	return store, func() { _ = store.Close() }, nil
}

func newS3(ctx context.Context, options map[string]any) (foldery.BucketStorage, func(), error) {
	var cfg s3.Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("decode s3 storage options: %w", err)
	}
	if err := decoder.Decode(options); err != nil {
		return nil, nil, fmt.Errorf("decode s3 storage options: %w", err)
	}

	client, err := s3.NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	return s3.New(client, cfg.Region), func() {}, nil
}
