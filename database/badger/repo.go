// Package badger provides an embedded FolderRepo on BadgerDB.
//
// Records live under "folder:<id>" as JSON. Scans walk that prefix in key
// order and behave like a key-value table scan: a page examines up to Limit
// records and returns the ones matching the query, so pages can be short or
// empty while a cursor is still returned.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/sagarc03/foldery"
	"github.com/sagarc03/foldery/database/internal"
)

var folderPrefix = []byte("folder:")

func keyFolder(id uuid.UUID) []byte {
	return append(append([]byte{}, folderPrefix...), id.String()...)
}

type repo struct {
	db *badger.DB
}

func decodeFolder(item *badger.Item) (foldery.Folder, error) {
	var f foldery.Folder
	err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &f)
	})
	if err != nil {
		return foldery.Folder{}, fmt.Errorf("decode %s: %w", item.Key(), err)
	}
	return f.Normalize(), nil
}

func setFolder(txn *badger.Txn, f foldery.Folder) error {
	data, err := json.Marshal(f.Normalize())
	if err != nil {
		return fmt.Errorf("encode folder: %w", err)
	}
	return txn.Set(keyFolder(f.ID), data)
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (foldery.Folder, error) {
	if err := ctx.Err(); err != nil {
		return foldery.Folder{}, fmt.Errorf("get: %w", err)
	}

	var f foldery.Folder
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyFolder(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get %s: %w", id, foldery.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get: %w", err)
		}

		f, err = decodeFolder(item)
		return err
	})
	if err != nil {
		return foldery.Folder{}, err
	}

	return f, nil
}

func (r *repo) Put(ctx context.Context, folder foldery.Folder) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("put: %w", err)
	}

	now := time.Now().UTC()
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = now
	}
	if folder.UpdatedAt.IsZero() {
		folder.UpdatedAt = now
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		return setFolder(txn, folder)
	})
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}

	return nil
}

func (r *repo) UpdateFields(ctx context.Context, id uuid.UUID, patch foldery.FolderPatch) (foldery.Folder, error) {
	if err := ctx.Err(); err != nil {
		return foldery.Folder{}, fmt.Errorf("update fields: %w", err)
	}

	var updated foldery.Folder
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(keyFolder(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("update fields %s: %w", id, foldery.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("update fields: %w", err)
		}

		current, err := decodeFolder(item)
		if err != nil {
			return fmt.Errorf("update fields: %w", err)
		}

		updated = patch.Apply(current)
		updated.UpdatedAt = time.Now().UTC()

		if err := setFolder(txn, updated); err != nil {
			return fmt.Errorf("update fields: %w", err)
		}
		return nil
	})
	if err != nil {
		return foldery.Folder{}, err
	}

	return updated, nil
}

func (r *repo) Scan(ctx context.Context, q foldery.ScanQuery) (foldery.ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return foldery.ScanResult{}, fmt.Errorf("scan: %w", err)
	}

	cursor, err := internal.DecodeCursor(q.Cursor)
	if err != nil {
		return foldery.ScanResult{}, fmt.Errorf("scan: %w", err)
	}

	var seek []byte
	if cursor.ID != "" {
		id, err := uuid.Parse(cursor.ID)
		if err != nil {
			return foldery.ScanResult{}, fmt.Errorf("scan: decode cursor: invalid id: %w", err)
		}
		seek = keyFolder(id)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = foldery.DefaultScanLimit
	}

	result := foldery.ScanResult{Items: []foldery.Folder{}}
	err = r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = folderPrefix

		it := txn.NewIterator(opts)
		defer it.Close()

		if seek == nil {
			it.Rewind()
		} else {
			it.Seek(seek)
			if it.Valid() && string(it.Item().Key()) == string(seek) {
				it.Next()
			}
		}

		examined := 0
		for ; it.Valid(); it.Next() {
			if examined%100 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			f, err := decodeFolder(it.Item())
			if err != nil {
				return err
			}

			examined++
			if q.Matches(f) {
				result.Items = append(result.Items, f)
			}

			if examined == limit {
				it.Next()
				if it.Valid() {
					result.NextCursor = internal.EncodeCursor(f.CreatedAt, f.ID.String())
				}
				return nil
			}
		}

		return nil
	})
	if err != nil {
		return foldery.ScanResult{}, fmt.Errorf("scan: %w", err)
	}

	return result, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(keyFolder(id))
	})
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}
