package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const DefaultWaitFeedURL = "https://www.ha.org.hk/opendata/aed/aedwtdata-en.json"

// Geocode cache backends selectable through GEOCODE_CACHE.
const (
	CacheNone     = "none"
	CacheSQLite   = "sqlite"
	CachePostgres = "postgres"
	CacheRedis    = "redis"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	Port string
	// Directions/geocoding credential. Empty disables routing.
	MapboxToken string
	// Overrides the bundled catalog when set.
	HospitalsPath string

	WaitFeedURL       string
	WaitFeedTimeout   time.Duration
	DirectionsTimeout time.Duration
	RefreshInterval   time.Duration
	SessionTTL        time.Duration

	GeocodeCache    string
	GeocodeDBPath   string
	GeocodeCacheTTL time.Duration
	DatabaseURL     string
	RedisURL        string
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetDuration parses a Go duration ("15s", "15m"). Invalid values fall back
// with a log line rather than stopping startup.
func GetDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("config: invalid duration %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

// Load reads the configuration and validates backend-specific requirements.
func Load() (Config, error) {
	cfg := Config{
		Port:              Get("PORT", "8501"),
		MapboxToken:       Get("MAPBOX_TOKEN", ""),
		HospitalsPath:     Get("HOSPITALS_PATH", ""),
		WaitFeedURL:       Get("WAIT_FEED_URL", DefaultWaitFeedURL),
		WaitFeedTimeout:   GetDuration("WAIT_FEED_TIMEOUT", 15*time.Second),
		DirectionsTimeout: GetDuration("DIRECTIONS_TIMEOUT", 15*time.Second),
		RefreshInterval:   GetDuration("REFRESH_INTERVAL", 15*time.Minute),
		SessionTTL:        GetDuration("SESSION_TTL", 30*time.Minute),
		GeocodeCache:      strings.ToLower(Get("GEOCODE_CACHE", CacheNone)),
		GeocodeDBPath:     Get("GEOCODE_DB_PATH", "data/geocode.db"),
		GeocodeCacheTTL:   GetDuration("GEOCODE_CACHE_TTL", 7*24*time.Hour),
		DatabaseURL:       Get("DATABASE_URL", ""),
		RedisURL:          Get("REDIS_URL", ""),
	}

	switch cfg.GeocodeCache {
	case CacheNone, CacheSQLite:
	case CachePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("load config: GEOCODE_CACHE=postgres requires DATABASE_URL")
		}
	case CacheRedis:
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("load config: GEOCODE_CACHE=redis requires REDIS_URL")
		}
	default:
		return Config{}, fmt.Errorf("load config: unknown GEOCODE_CACHE %q", cfg.GeocodeCache)
	}

	return cfg, nil
}
