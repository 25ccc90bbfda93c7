package ports

import (
	"ae-dashboard-service/internal/domain"
	"context"
)

// Contract for resolving a free-text place to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (domain.Coordinates, error)
}

// Persistent store for geocoding results keyed by normalized query text.
type GeocodeCache interface {
	// Return cached coordinates for the queries that are present.
	GetMany(ctx context.Context, queries []string) (map[string]domain.Coordinates, error)
	// Store query -> coordinate mappings.
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
