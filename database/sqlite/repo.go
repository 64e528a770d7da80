// Package sqlite implements foldery.FolderRepo on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sagarc03/foldery"
	"github.com/sagarc03/foldery/database/internal"
)

// timeLayout is fixed width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type repo struct {
	db        *sql.DB
	tableName string
}

type rowScanner interface {
	Scan(dest ...any) error
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func scanFolder(row rowScanner) (foldery.Folder, error) {
	var (
		f                     foldery.Folder
		idStr                 string
		subs, required, files string
		createdAt, updatedAt  string
	)

	err := row.Scan(&idStr, &f.Owner, &f.Name, &f.Type, &subs, &required, &files, &createdAt, &updatedAt)
	if err != nil {
		return foldery.Folder{}, err
	}

	f.ID, err = uuid.Parse(idStr)
	if err != nil {
		return foldery.Folder{}, fmt.Errorf("parse uuid: %w", err)
	}

	if err := internal.DecodeColumns(&f, []byte(subs), []byte(required), []byte(files)); err != nil {
		return foldery.Folder{}, err
	}

	f.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return foldery.Folder{}, fmt.Errorf("parse created_at: %w", err)
	}

	f.UpdatedAt, err = time.Parse(timeLayout, updatedAt)
	if err != nil {
		return foldery.Folder{}, fmt.Errorf("parse updated_at: %w", err)
	}

	return f, nil
}

func (r *repo) selectColumns() string {
	return strings.Join(folderColumns, ", ")
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (foldery.Folder, error) {
	if err := ctx.Err(); err != nil {
		return foldery.Folder{}, fmt.Errorf("get: %w", err)
	}

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s WHERE id = ?`, r.selectColumns(), quoteIdentifier(r.tableName))

	f, err := scanFolder(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return foldery.Folder{}, fmt.Errorf("get %s: %w", id, foldery.ErrNotFound)
		}
		return foldery.Folder{}, fmt.Errorf("get: %w", err)
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

	cols, err := internal.EncodeColumns(folder)
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			owner = excluded.owner,
			name = excluded.name,
			type = excluded.type,
			sub_folders = excluded.sub_folders,
			required_files = excluded.required_files,
			files = excluded.files,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`, quoteIdentifier(r.tableName), r.selectColumns())

	_, err = r.db.ExecContext(ctx, query,
		folder.ID.String(), folder.Owner, folder.Name, folder.Type,
		cols.SubFolders, cols.RequiredFiles, cols.Files,
		formatTime(folder.CreatedAt), formatTime(folder.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}

	return nil
}

func (r *repo) UpdateFields(ctx context.Context, id uuid.UUID, patch foldery.FolderPatch) (foldery.Folder, error) {
	if err := ctx.Err(); err != nil {
		return foldery.Folder{}, fmt.Errorf("update fields: %w", err)
	}

	assignments, err := internal.PatchAssignments(patch)
	if err != nil {
		return foldery.Folder{}, fmt.Errorf("update fields: %w", err)
	}
	assignments = append(assignments, internal.Assignment{Column: "updated_at", Value: formatTime(time.Now())})

	sets := make([]string, 0, len(assignments))
	args := make([]any, 0, len(assignments)+1)
	for _, a := range assignments {
		sets = append(sets, quoteIdentifier(a.Column)+" = ?")
		args = append(args, a.Value)
	}
	args = append(args, id.String())

	query := fmt.Sprintf( //nolint:gosec // G201: table name and columns are fixed
		`UPDATE %s SET %s WHERE id = ? RETURNING %s`,
		quoteIdentifier(r.tableName), strings.Join(sets, ", "), r.selectColumns())

	f, err := scanFolder(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return foldery.Folder{}, fmt.Errorf("update fields %s: %w", id, foldery.ErrNotFound)
		}
		return foldery.Folder{}, fmt.Errorf("update fields: %w", err)
	}

	return f, nil
}

func (r *repo) Scan(ctx context.Context, q foldery.ScanQuery) (foldery.ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return foldery.ScanResult{}, fmt.Errorf("scan: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = foldery.DefaultScanLimit
	}

	var (
		conditions []string
		args       []any
	)

	if q.Owner != "" {
		conditions = append(conditions, "owner = ?")
		args = append(args, q.Owner)
	}

	if q.Name != "" {
		conditions = append(conditions, "name = ?")
		args = append(args, q.Name)
	}

	if q.Cursor != "" {
		cursor, err := internal.DecodeCursor(q.Cursor)
		if err != nil {
			return foldery.ScanResult{}, fmt.Errorf("scan: %w", err)
		}
		createdAt := formatTime(cursor.CreatedAt)
		conditions = append(conditions, "(created_at > ? OR (created_at = ? AND id > ?))")
		args = append(args, createdAt, createdAt, cursor.ID)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit+1)

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s %s ORDER BY created_at, id LIMIT ?`,
		r.selectColumns(), quoteIdentifier(r.tableName), where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return foldery.ScanResult{}, fmt.Errorf("scan: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]foldery.Folder, 0, limit)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return foldery.ScanResult{}, fmt.Errorf("scan: %w", err)
		}
		items = append(items, f)
	}

	if err := rows.Err(); err != nil {
		return foldery.ScanResult{}, fmt.Errorf("scan: %w", err)
	}

	var next string
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		next = internal.EncodeCursor(last.CreatedAt, last.ID.String())
	}

	return foldery.ScanResult{Items: items, NextCursor: next}, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, quoteIdentifier(r.tableName)) //nolint:gosec // G201: table name is validated

	if _, err := r.db.ExecContext(ctx, query, id.String()); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}
