package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite geocode cache schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        query TEXT PRIMARY KEY,
        lon REAL NOT NULL,
        lat REAL NOT NULL,
        cached_at INTEGER NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_geocode_cache_cached_at
    ON geocode_cache(cached_at);
	`

	return execSchema(ctx, db, "init schema", createGeocodeCacheQuery, createIndexQuery)
}

func execSchema(ctx context.Context, db *sql.DB, op string, statements ...string) error {
	if db == nil {
		return fmt.Errorf("%s: %w", op, errNilDB)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: exec statement #%d: %w", op, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit tx: %w", op, err)
	}

	return nil
}

var errNilDB = errors.New("DB is nil")
