package directions

import (
	"ae-dashboard-service/internal/domain"
	"context"
	"fmt"
)

var ErrNotConfigured = fmt.Errorf("directions provider not configured: %w", domain.ErrNetwork)

// Unconfigured stands in for the provider when no access token is set.
// Every call fails with ErrNotConfigured so the dashboard keeps working
// while route planning reports itself unavailable.
type Unconfigured struct{}

func (Unconfigured) Geocode(context.Context, string) (domain.Coordinates, error) {
	return domain.Coordinates{}, ErrNotConfigured
}

func (Unconfigured) Directions(context.Context, domain.Coordinates, domain.Coordinates, domain.TransportMode) ([]domain.RouteOption, error) {
	return nil, ErrNotConfigured
}
