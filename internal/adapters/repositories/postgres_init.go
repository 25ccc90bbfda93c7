package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Initialize the Postgres geocode cache schema.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        query TEXT PRIMARY KEY,
        lon DOUBLE PRECISION NOT NULL,
        lat DOUBLE PRECISION NOT NULL,
        cached_at BIGINT NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_geocode_cache_cached_at
    ON geocode_cache(cached_at);
	`

	return execSchema(ctx, db, "init postgres schema", createGeocodeCacheQuery, createIndexQuery)
}

// PruneGeocodeCache deletes Postgres cache rows older than maxAge and
// reports how many were removed.
func PruneGeocodeCache(ctx context.Context, db *sql.DB, maxAge time.Duration) (int64, error) {
	if db == nil {
		return 0, fmt.Errorf("prune geocode cache: %w", errNilDB)
	}

	if maxAge <= 0 {
		return 0, fmt.Errorf("prune geocode cache: max age must be positive, got %s", maxAge)
	}

	res, err := db.ExecContext(ctx, `DELETE FROM geocode_cache WHERE cached_at < $1;`, time.Now().Add(-maxAge).Unix())
	if err != nil {
		return 0, fmt.Errorf("prune geocode cache: delete: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune geocode cache: rows affected: %w", err)
	}

	return n, nil
}
