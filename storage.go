package foldery

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// BucketStorage defines the interface for the physical container backend.
// Implementations can use a local directory tree, S3 or anything else able
// to hold named buckets.
//
// Names passed in are already sanitized by SanitizeBucketName.
type BucketStorage interface {
	// BucketExists reports whether the bucket exists.
	//
	// Returns:
	//   - bool: false when the backend reports the bucket as missing
	//   - error: Any other backend failure (permissions, network, ...)
	BucketExists(ctx context.Context, name string) (bool, error)

	// CreateBucket provisions a new bucket.
	//
	// Returns:
	//   - error: ErrAlreadyExists if the bucket exists, or other backend errors
	CreateBucket(ctx context.Context, name string) error

	// DeleteBucket removes the bucket. Backends may refuse to remove a bucket
	// that still holds objects.
	DeleteBucket(ctx context.Context, name string) error
}

// Containers derives bucket names for folders and manages them on a
// BucketStorage backend.
type Containers struct {
	backend BucketStorage
	prefix  string
}

func NewContainers(backend BucketStorage, prefix string) *Containers {
	return &Containers{backend: backend, prefix: prefix}
}

// Name returns the canonical bucket name for the folder.
func (c *Containers) Name(id uuid.UUID, owner string) (string, error) {
	return BucketName(c.prefix, id.String(), owner)
}

// Exists reports whether the folder's bucket exists. Backend failures other
// than "missing" are reported as ErrStorageUnavailable.
func (c *Containers) Exists(ctx context.Context, id uuid.UUID, owner string) (bool, error) {
	name, err := c.Name(id, owner)
	if err != nil {
		return false, fmt.Errorf("bucket exists: %w", err)
	}

	ok, err := c.backend.BucketExists(ctx, name)
	if err != nil {
		return false, Wrap(KindStorageUnavailable, "bucket exists "+name, err)
	}

	return ok, nil
}

// Create provisions the folder's bucket and returns its name.
func (c *Containers) Create(ctx context.Context, id uuid.UUID, owner string) (string, error) {
	name, err := c.Name(id, owner)
	if err != nil {
		return "", fmt.Errorf("create bucket: %w", err)
	}

	exists, err := c.Exists(ctx, id, owner)
	if err != nil {
		return "", fmt.Errorf("create bucket: %w", err)
	}
	if exists {
		return "", E(KindAlreadyExists, "create bucket", fmt.Sprintf("Bucket %s already exists.", name))
	}

	if err := c.backend.CreateBucket(ctx, name); err != nil {
		return "", fmt.Errorf("create bucket %s: %w", name, err)
	}

	return name, nil
}

// Delete removes the folder's bucket. Backend failures are reported as
// unclassified errors whatever their cause.
func (c *Containers) Delete(ctx context.Context, id uuid.UUID, owner string) error {
	name, err := c.Name(id, owner)
	if err != nil {
		return fmt.Errorf("delete bucket: %w", err)
	}

	if err := c.backend.DeleteBucket(ctx, name); err != nil {
		return Wrap(KindUnclassified, "delete bucket "+name, err)
	}

	return nil
}
