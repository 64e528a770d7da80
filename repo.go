package foldery

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// FolderRepo defines the interface for folder metadata persistence.
// Single record operations must be atomic; nothing spanning several records
// is expected to be.
//
// All methods accept a context for cancellation and timeout control.
type FolderRepo interface {
	// Get retrieves a folder by id.
	//
	// Returns:
	//   - Folder: The stored record
	//   - error: ErrNotFound if no record has that id, or other database errors
	Get(ctx context.Context, id uuid.UUID) (Folder, error)

	// Put writes the full record, replacing any existing record with the same id.
	// Zero CreatedAt or UpdatedAt values are filled with the current time.
	Put(ctx context.Context, folder Folder) error

	// UpdateFields applies the non-nil fields of patch to the record.
	//
	// Returns:
	//   - Folder: The record as stored after the update
	//   - error: ErrNotFound if no record has that id, or other database errors
	UpdateFields(ctx context.Context, id uuid.UUID, patch FolderPatch) (Folder, error)

	// Scan returns one page of records matching the query filters.
	//
	// A page may contain fewer than q.Limit items, including none, while
	// NextCursor is still set. Callers that want every match should use ScanAll.
	//
	// Returns:
	//   - ScanResult: Matching records and a cursor for the next page
	//   - error: Invalid cursor, or other database errors
	Scan(ctx context.Context, q ScanQuery) (ScanResult, error)

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}

// DefaultScanLimit is the page size ScanAll asks for when the query has none.
const DefaultScanLimit = 100

// ScanAll follows Scan cursors until the store reports no further pages and
// returns every matching record.
func ScanAll(ctx context.Context, repo FolderRepo, q ScanQuery) ([]Folder, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultScanLimit
	}
	q.Cursor = ""

	folders := []Folder{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan all: %w", err)
		}

		page, err := repo.Scan(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("scan all: %w", err)
		}
		folders = append(folders, page.Items...)

		if page.NextCursor == "" {
			return folders, nil
		}
		if page.NextCursor == q.Cursor {
			return nil, fmt.Errorf("scan all: cursor did not advance: %s", page.NextCursor)
		}
		q.Cursor = page.NextCursor
	}
}

// Tables holds configurable table names for folder storage.
// This allows several deployments to share one database.
type Tables struct {
	Folders string `mapstructure:"folders"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Folders == "" {
		return errors.New("validate tables: folders table name cannot be empty")
	}

	if !IsValidTableName(t.Folders) {
		return fmt.Errorf("validate tables: invalid folders table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Folders)
	}

	return nil
}
