package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/foldery"
)

// Migrate creates every table the repo uses.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables foldery.Tables) error {
	if err := createFolderTable(ctx, pool, tables.Folders); err != nil {
		return fmt.Errorf("migrate up %s: %w", tables.Folders, err)
	}
	return nil
}

// DropTables removes every table the repo uses.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables foldery.Tables) error {
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{tables.Folders}.Sanitize())
	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("migrate down %s: %w", tables.Folders, err)
	}
	return nil
}

func createFolderTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexOwnerName := pgx.Identifier{fmt.Sprintf("idx_%s_owner_name", tableName)}.Sanitize()
	indexScan := pgx.Identifier{fmt.Sprintf("idx_%s_scan", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			owner TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			sub_folders JSONB NOT NULL DEFAULT '[]'::jsonb,
			required_files JSONB NOT NULL DEFAULT '[]'::jsonb,
			files JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (owner, name);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (created_at, id);
	`,
		quotedTable,
		indexOwnerName, quotedTable,
		indexScan, quotedTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create folder table: %w", err)
	}
	return nil
}
