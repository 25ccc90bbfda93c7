package ports

import (
	"ae-dashboard-service/internal/domain"
	"context"
)

// Contract for retrieving candidate routes between two points.
type RouteProvider interface {
	// Return every route option the provider offers, in provider order.
	Directions(ctx context.Context, origin, destination domain.Coordinates, mode domain.TransportMode) ([]domain.RouteOption, error)
}
