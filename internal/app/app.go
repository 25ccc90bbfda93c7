package app

import (
	"ae-dashboard-service/internal/adapters/cache"
	"ae-dashboard-service/internal/adapters/directions"
	"ae-dashboard-service/internal/adapters/feed"
	"ae-dashboard-service/internal/adapters/repositories"
	"ae-dashboard-service/internal/catalog"
	"ae-dashboard-service/internal/config"
	"ae-dashboard-service/internal/platform/db"
	"ae-dashboard-service/internal/ports"
	"ae-dashboard-service/internal/services"
	"context"
	"fmt"
	"log"
)

// App is the wired dashboard plus the resources it holds open.
// Callers register the sqlite and pgx drivers with blank imports.
type App struct {
	Dashboard *services.Dashboard
	closers   []func() error
}

// Build wires concrete adapters (HA feed, Mapbox, geocode cache) behind
// ports. A missing Mapbox token is not fatal: routing then reports
// itself unavailable.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	cat, err := loadCatalog(cfg.HospitalsPath)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}

	fetcher, err := feed.NewHAFeed(cfg.WaitFeedURL, cfg.WaitFeedTimeout, cat)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}

	a := &App{}

	var geocoder ports.Geocoder = directions.Unconfigured{}
	var provider ports.RouteProvider = directions.Unconfigured{}

	if cfg.MapboxToken == "" {
		log.Println("MAPBOX_TOKEN not set; route planning is disabled")
	} else {
		geoCache, err := a.openGeocodeCache(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("build app: %w", err)
		}

		opts := []directions.Option{directions.WithTimeout(cfg.DirectionsTimeout)}
		if geoCache != nil {
			opts = append(opts, directions.WithGeocodeCache(geoCache))
		}

		mapbox, err := directions.NewMapboxProvider(cfg.MapboxToken, opts...)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("build app: %w", err)
		}
		geocoder, provider = mapbox, mapbox
	}

	routes := services.NewRouteService(cat, geocoder, provider)
	a.Dashboard = services.NewDashboard(cat, fetcher, routes, cfg.RefreshInterval)

	log.Printf("app ready hospitals=%d feed=%s geocode_cache=%s", cat.Len(), cfg.WaitFeedURL, cfg.GeocodeCache)
	return a, nil
}

// Close releases database and redis connections in reverse open order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("app close: %v", err)
		}
	}
	a.closers = nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

// openGeocodeCache returns nil when caching is disabled.
func (a *App) openGeocodeCache(ctx context.Context, cfg config.Config) (ports.GeocodeCache, error) {
	switch cfg.GeocodeCache {
	case config.CacheSQLite:
		sqlDB, err := db.OpenSQLite(cfg.GeocodeDBPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sqlDB.Close)

		if err := repositories.InitSchema(ctx, sqlDB); err != nil {
			return nil, err
		}
		return cache.NewSqliteGeocodeCache(sqlDB, cfg.GeocodeCacheTTL), nil

	case config.CachePostgres:
		sqlDB, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sqlDB.Close)

		if err := repositories.InitPostgresSchema(ctx, sqlDB); err != nil {
			return nil, err
		}
		return cache.NewSQLGeocodeCache(sqlDB, cfg.GeocodeCacheTTL), nil

	case config.CacheRedis:
		client, err := db.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)

		return cache.NewRedisGeocodeCache(client, cfg.GeocodeCacheTTL), nil

	default:
		return nil, nil
	}
}
