package app

import (
	"ae-dashboard-service/internal/adapters/directions"
	"ae-dashboard-service/internal/config"
	"ae-dashboard-service/internal/dashboard"
	"ae-dashboard-service/internal/domain"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "modernc.org/sqlite"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	return config.Config{
		WaitFeedURL:       srv.URL,
		WaitFeedTimeout:   time.Second,
		DirectionsTimeout: time.Second,
		RefreshInterval:   15 * time.Minute,
		GeocodeCache:      config.CacheNone,
		GeocodeCacheTTL:   time.Hour,
	}
}

func TestBuildWithoutTokenDisablesRouting(t *testing.T) {
	a, err := Build(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()

	if a.Dashboard.Catalog.Len() != 18 {
		t.Fatalf("catalog size = %d", a.Dashboard.Catalog.Len())
	}

	st := dashboard.NewState("test")
	snap := a.Dashboard.Refresh(context.Background(), st)
	if snap.Source() != domain.SourceFallback {
		t.Fatalf("source = %q, want fallback", snap.Source())
	}

	_, err = a.Dashboard.PlanRoute(context.Background(), st, "Central", "QMH", "driving")
	if !errors.Is(err, directions.ErrNotConfigured) || !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected not-configured network error, got %v", err)
	}
}

func TestBuildWithSQLiteCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.MapboxToken = "pk.test"
	cfg.GeocodeCache = config.CacheSQLite
	cfg.GeocodeDBPath = filepath.Join(t.TempDir(), "cache", "geocode.db")

	a, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()

	if len(a.closers) != 1 {
		t.Fatalf("expected the sqlite handle to be tracked, got %d closers", len(a.closers))
	}
	if _, ok := a.Dashboard.Routes.Provider.(*directions.MapboxProvider); !ok {
		t.Fatalf("provider = %T, want *directions.MapboxProvider", a.Dashboard.Routes.Provider)
	}
}

func TestBuildWithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.MapboxToken = "pk.test"
	cfg.GeocodeCache = config.CacheRedis
	cfg.RedisURL = "redis://" + mr.Addr()

	a, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	a.Close()

	if a.closers != nil {
		t.Fatal("Close should release every resource")
	}
}

func TestBuildRejectsMissingCatalogFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.HospitalsPath = filepath.Join(t.TempDir(), "missing.json")

	if _, err := Build(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing hospitals file")
	}
}
