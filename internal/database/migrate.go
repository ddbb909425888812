package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/alg/schemas"
)

const migrationsDir = "migrations"

// Migrate applies the embedded migrations that are not recorded in schema_migrations yet, in file name order.
func Migrate(ctx context.Context, db *sqlx.DB, logger *slog.Logger) ([]string, error) {
	return migrate(ctx, db, schemas.Migrations, logger)
}

func migrate(ctx context.Context, db *sqlx.DB, migrations fs.FS, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(255) NOT NULL PRIMARY KEY)`); err != nil {
		return nil, fmt.Errorf("create schema_migrations > %w", err)
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, `SELECT version FROM schema_migrations`); err != nil {
		return nil, fmt.Errorf("db.SelectContext() > %w", err)
	}
	done := make(map[string]struct{}, len(applied))
	for _, version := range applied {
		done[version] = struct{}{}
	}

	entries, err := fs.ReadDir(migrations, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("fs.ReadDir(%s) > %w", migrationsDir, err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var ran []string
	for _, name := range names {
		version := strings.TrimSuffix(name, ".sql")
		if _, ok := done[version]; ok {
			continue
		}
		contents, err := fs.ReadFile(migrations, path.Join(migrationsDir, name))
		if err != nil {
			return ran, fmt.Errorf("fs.ReadFile(%s) > %w", name, err)
		}

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return ran, fmt.Errorf("db.BeginTxx() > %w", err)
		}
		if _, err := tx.ExecContext(ctx, string(contents)); err != nil {
			_ = tx.Rollback()
			return ran, fmt.Errorf("apply %s > %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			_ = tx.Rollback()
			return ran, fmt.Errorf("record %s > %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return ran, fmt.Errorf("tx.Commit() > %w", err)
		}
		logger.Info("applied migration", "version", version)
		ran = append(ran, version)
	}
	return ran, nil
}
