// Package postgres implements foldery.FolderRepo on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/foldery"
	"github.com/sagarc03/foldery/database/internal"
)

// selectColumns reads the JSONB columns back as text so decoding stays in
// internal.DecodeColumns.
const selectColumns = `id, owner, name, type, sub_folders::text, required_files::text, files::text, created_at, updated_at`

type repo struct {
	pool      *pgxpool.Pool
	tableName string
}

func NewRepo(pool *pgxpool.Pool, tables foldery.Tables) (foldery.FolderRepo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &repo{pool: pool, tableName: tables.Folders}, nil
}

func (r *repo) table() string {
	return pgx.Identifier{r.tableName}.Sanitize()
}

func scanFolder(row pgx.Row) (foldery.Folder, error) {
	var (
		f                     foldery.Folder
		subs, required, files string
	)

	err := row.Scan(&f.ID, &f.Owner, &f.Name, &f.Type, &subs, &required, &files, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return foldery.Folder{}, err
	}

	if err := internal.DecodeColumns(&f, []byte(subs), []byte(required), []byte(files)); err != nil {
		return foldery.Folder{}, err
	}

	return f, nil
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (foldery.Folder, error) {
	if err := ctx.Err(); err != nil {
		return foldery.Folder{}, fmt.Errorf("get: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, selectColumns, r.table())

	f, err := scanFolder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner, name, type, sub_folders, required_files, files, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::text::jsonb, $6::text::jsonb, $7::text::jsonb, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			owner = EXCLUDED.owner,
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			sub_folders = EXCLUDED.sub_folders,
			required_files = EXCLUDED.required_files,
			files = EXCLUDED.files,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`, r.table())

	_, err = r.pool.Exec(ctx, query,
		folder.ID, folder.Owner, folder.Name, folder.Type,
		cols.SubFolders, cols.RequiredFiles, cols.Files,
		folder.CreatedAt, folder.UpdatedAt,
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

	sets := make([]string, 0, len(assignments)+1)
	args := make([]any, 0, len(assignments)+1)
	for _, a := range assignments {
		args = append(args, a.Value)
		placeholder := fmt.Sprintf("$%d", len(args))
		switch a.Column {
		case "sub_folders", "required_files":
			placeholder += "::text::jsonb"
		}
		sets = append(sets, pgx.Identifier{a.Column}.Sanitize()+" = "+placeholder)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING %s`,
		r.table(), strings.Join(sets, ", "), len(args), selectColumns)

	f, err := scanFolder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
		args = append(args, q.Owner)
		conditions = append(conditions, fmt.Sprintf("owner = $%d", len(args)))
	}

	if q.Name != "" {
		args = append(args, q.Name)
		conditions = append(conditions, fmt.Sprintf("name = $%d", len(args)))
	}

	if q.Cursor != "" {
		cursor, err := internal.DecodeCursor(q.Cursor)
		if err != nil {
			return foldery.ScanResult{}, fmt.Errorf("scan: %w", err)
		}
		cursorID, err := uuid.Parse(cursor.ID)
		if err != nil {
			return foldery.ScanResult{}, fmt.Errorf("scan: decode cursor: invalid id: %w", err)
		}
		args = append(args, cursor.CreatedAt, cursorID)
		conditions = append(conditions, fmt.Sprintf("(created_at, id) > ($%d::timestamptz, $%d::uuid)", len(args)-1, len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit+1)

	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY created_at, id LIMIT $%d`,
		selectColumns, r.table(), where, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return foldery.ScanResult{}, fmt.Errorf("scan: %w", err)
	}
	defer rows.Close()

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

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table())

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	return nil
}
