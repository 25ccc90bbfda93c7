package services

import (
	"ae-dashboard-service/internal/catalog"
	"ae-dashboard-service/internal/domain"
	"ae-dashboard-service/internal/platform/obs"
	"ae-dashboard-service/internal/ports"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// RouteService answers "how do I get from here to hospital X":
// validate, geocode the origin, fetch directions, rank.
type RouteService struct {
	Catalog  *catalog.Catalog
	Geocoder ports.Geocoder
	Provider ports.RouteProvider
	Now      func() time.Time
}

func NewRouteService(cat *catalog.Catalog, geocoder ports.Geocoder, provider ports.RouteProvider) *RouteService {
	return &RouteService{
		Catalog:  cat,
		Geocoder: geocoder,
		Provider: provider,
		Now:      time.Now,
	}
}

// GetRoute plans a route from origin (a place name or a "lat,lon" pair) to
// the catalog hospital with the given id.
//
// Input problems are reported before any network call. The fastest option
// becomes the primary route; the rest are alternatives ordered by duration,
// then distance.
func (s *RouteService) GetRoute(
	ctx context.Context,
	origin string,
	hospitalID string,
	mode string,
) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "services.GetRoute")(&err)

	origin = strings.Join(strings.Fields(origin), " ")
	if origin == "" {
		return nil, fmt.Errorf("get route: origin must be non-empty: %w", domain.ErrInput)
	}

	h, ok := s.Catalog.Get(hospitalID)
	if !ok {
		return nil, fmt.Errorf("get route: hospital %q: %w", hospitalID, domain.ErrNotFound)
	}

	m, err := domain.ParseTransportMode(mode)
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}

	from, err := s.resolveOrigin(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}

	options, err := s.Provider.Directions(ctx, from, h.Coordinates, m)
	if err != nil {
		return nil, fmt.Errorf("get route: directions to %s: %w", h.ID, err)
	}

	if len(options) == 0 {
		return nil, fmt.Errorf("get route: no route to %s: %w", h.ID, domain.ErrInput)
	}

	ranked := slices.Clone(options)
	slices.SortStableFunc(ranked, func(a, b domain.RouteOption) int {
		if c := cmp.Compare(a.DurationSeconds, b.DurationSeconds); c != 0 {
			return c
		}
		return cmp.Compare(a.DistanceMeters, b.DistanceMeters)
	})

	return &domain.RouteResult{
		Origin:            origin,
		OriginCoordinates: from,
		HospitalID:        h.ID,
		Mode:              m,
		Route:             ranked[0],
		Alternatives:      append(make([]domain.RouteOption, 0, len(ranked)-1), ranked[1:]...),
		RequestedAt:       s.now(),
	}, nil
}

// resolveOrigin accepts a "lat,lon" pair as-is and geocodes anything else.
func (s *RouteService) resolveOrigin(ctx context.Context, origin string) (domain.Coordinates, error) {
	origin = strings.Join(strings.Fields(origin), " ")
	if origin == "" {
		return domain.Coordinates{}, fmt.Errorf("origin must be non-empty: %w", domain.ErrInput)
	}

	from, isPair, err := domain.ParseCoordinates(origin)
	if err != nil {
		return domain.Coordinates{}, err
	}
	if isPair {
		return from, nil
	}

	from, err = s.Geocoder.Geocode(ctx, origin)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode origin: %w", err)
	}
	return from, nil
}

func (s *RouteService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
