package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
)

const migrationTable = "schema_migration"

// ApplyMigrations runs every *.surql file in fsys that has not been recorded
// in the schema_migration table yet, in lexical order. Each file runs inside
// one transaction together with the insert that records it.
func ApplyMigrations(ctx context.Context, db Database, fsys fs.FS) ([]string, error) {
	if err := ensureMigrationTable(ctx, db); err != nil {
		return nil, err
	}

	files, err := migrationFiles(fsys)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(files))
	for _, name := range files {
		done, err := isMigrated(ctx, db, name)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		contents, err := fs.ReadFile(fsys, name)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}

		batch := NewAtomicBatch()
		batch.Add(string(contents), nil)
		batch.Add(`CREATE schema_migration SET name = $name, applied_at = time::now()`, map[string]interface{}{
			"name": name,
		})
		if err := batch.Execute(ctx, db); err != nil {
			return applied, fmt.Errorf("execute migration %s: %w", name, err)
		}

		slog.Info("migration applied", "name", name)
		applied = append(applied, name)
	}

	return applied, nil
}

// PendingMigrations lists migration files not yet recorded as applied
func PendingMigrations(ctx context.Context, db Database, fsys fs.FS) ([]string, error) {
	if err := ensureMigrationTable(ctx, db); err != nil {
		return nil, err
	}

	files, err := migrationFiles(fsys)
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, name := range files {
		done, err := isMigrated(ctx, db, name)
		if err != nil {
			return nil, err
		}
		if !done {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

func migrationFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".surql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func ensureMigrationTable(ctx context.Context, db Database) error {
	err := db.Execute(ctx, `
		DEFINE TABLE IF NOT EXISTS schema_migration SCHEMAFULL;
		DEFINE FIELD IF NOT EXISTS name ON schema_migration TYPE string;
		DEFINE FIELD IF NOT EXISTS applied_at ON schema_migration TYPE datetime;
		DEFINE INDEX IF NOT EXISTS schema_migration_name ON schema_migration FIELDS name UNIQUE;
	`, nil)
	if err != nil {
		return fmt.Errorf("ensure %s: %w", migrationTable, err)
	}
	return nil
}

func isMigrated(ctx context.Context, db Database, name string) (bool, error) {
	result, err := db.QueryOne(ctx, `SELECT count() AS count FROM schema_migration WHERE name = $name GROUP ALL`, map[string]interface{}{
		"name": name,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check migration %s: %w", name, err)
	}

	row, ok := result.(map[string]interface{})
	if !ok {
		return false, nil
	}
	switch n := row["count"].(type) {
	case int:
		return n > 0, nil
	case int64:
		return n > 0, nil
	case uint64:
		return n > 0, nil
	case float64:
		return n > 0, nil
	}
	return false, nil
}
