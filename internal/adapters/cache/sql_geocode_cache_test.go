package cache

import (
	"ae-dashboard-service/internal/adapters/repositories"
	"ae-dashboard-service/internal/domain"
	"ae-dashboard-service/internal/platform/db"
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// openPostgres connects to DATABASE_URL and applies the schema. Tests using
// it are skipped when no database is configured.
func openPostgres(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	conn, err := db.Open(url)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	ctx := context.Background()
	if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	// Applying the schema twice must be harmless.
	if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
		t.Fatalf("re-init schema: %v", err)
	}
	return conn
}

// testKeys returns query keys unique to this run and removes their rows
// when the test ends.
func testKeys(t *testing.T, conn *sql.DB, names ...string) []string {
	t.Helper()

	prefix := "test-" + uuid.NewString() + ":"
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = prefix + n
	}
	t.Cleanup(func() {
		_, _ = conn.ExecContext(context.Background(), `DELETE FROM geocode_cache WHERE query LIKE $1;`, prefix+"%")
	})
	return keys
}

func TestSQLGeocodeCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := openPostgres(t)
	keys := testKeys(t, conn, "central", "mong kok")
	c := NewSQLGeocodeCache(conn, time.Hour)

	central := domain.Coordinates{Lon: 114.158, Lat: 22.2819}
	if err := c.PutMany(ctx, map[string]domain.Coordinates{keys[0]: central}); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.GetMany(ctx, []string{keys[0], keys[0], " ", keys[1]})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[keys[0]] != central {
		t.Fatalf("got %+v", got)
	}

	moved := domain.Coordinates{Lon: 114.16, Lat: 22.28}
	if err := c.PutMany(ctx, map[string]domain.Coordinates{keys[0]: moved}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = c.GetMany(ctx, []string{keys[0]})
	if got[keys[0]] != moved {
		t.Fatalf("expected overwrite, got %+v", got)
	}

	if err := c.PutMany(ctx, map[string]domain.Coordinates{" ": central}); err == nil {
		t.Fatal("expected error for empty query key")
	}
}

func TestSQLGeocodeCacheExpiryAndPrune(t *testing.T) {
	ctx := context.Background()
	conn := openPostgres(t)
	keys := testKeys(t, conn, "stale", "fresh")
	c := NewSQLGeocodeCache(conn, time.Hour)

	stale := time.Now().Add(-2 * time.Hour).Unix()
	if _, err := conn.ExecContext(ctx,
		`INSERT INTO geocode_cache (query, lon, lat, cached_at) VALUES ($1, 114.1, 22.3, $2);`,
		keys[0], stale,
	); err != nil {
		t.Fatalf("insert stale row: %v", err)
	}
	if err := c.PutMany(ctx, map[string]domain.Coordinates{keys[1]: {Lon: 114.2, Lat: 22.3}}); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.GetMany(ctx, keys)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, ok := got[keys[0]]; ok {
		t.Fatal("stale entry must read as a miss")
	}
	if _, ok := got[keys[1]]; !ok {
		t.Fatal("fresh entry missing")
	}

	n, err := repositories.PruneGeocodeCache(ctx, conn, time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n < 1 {
		t.Fatalf("expected at least 1 pruned row, got %d", n)
	}

	var count int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM geocode_cache WHERE query = ANY($1::text[]);`, keys).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected only the fresh row to survive, got %d", count)
	}

	if _, err := repositories.PruneGeocodeCache(ctx, conn, 0); err == nil {
		t.Fatal("expected error for non-positive max age")
	}
}
