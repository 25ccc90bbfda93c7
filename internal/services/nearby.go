package services

import (
	"ae-dashboard-service/internal/dashboard"
	"ae-dashboard-service/internal/domain"
	"ae-dashboard-service/internal/platform/obs"
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
)

const earthRadiusMeters = 6371000.0

// NearbyHospital is a catalog hospital with its straight-line distance from
// an origin and, when the session has one, its current wait time.
type NearbyHospital struct {
	Hospital       domain.Hospital
	DistanceMeters int
	Record         *domain.WaitTimeRecord
}

// Nearest ranks every catalog hospital by great-circle distance from origin.
// Equal distances are ordered by hospital id. limit <= 0 returns all.
func (s *RouteService) Nearest(ctx context.Context, origin string, limit int) (_ domain.Coordinates, _ []NearbyHospital, err error) {
	defer obs.Time(ctx, "services.Nearest")(&err)

	from, err := s.resolveOrigin(ctx, origin)
	if err != nil {
		return domain.Coordinates{}, nil, fmt.Errorf("nearest hospitals: %w", err)
	}

	out := make([]NearbyHospital, 0, s.Catalog.Len())
	for _, h := range s.Catalog.All() {
		out = append(out, NearbyHospital{
			Hospital:       h,
			DistanceMeters: int(math.Round(haversineMeters(from, h.Coordinates))),
		})
	}

	slices.SortFunc(out, func(a, b NearbyHospital) int {
		if c := cmp.Compare(a.DistanceMeters, b.DistanceMeters); c != 0 {
			return c
		}
		return strings.Compare(a.Hospital.ID, b.Hospital.ID)
	})

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return from, out, nil
}

// Nearest lists hospitals closest to origin with wait times from the
// session snapshot, refreshing it first when stale.
func (d *Dashboard) Nearest(ctx context.Context, st *dashboard.State, origin string, limit int) (domain.Coordinates, []NearbyHospital, error) {
	from, near, err := d.Routes.Nearest(ctx, origin, limit)
	if err != nil {
		return domain.Coordinates{}, nil, err
	}

	snap := d.WaitTimes(ctx, st)
	for i := range near {
		if rec, ok := snap.Record(near[i].Hospital.ID); ok {
			near[i].Record = &rec
		}
	}
	return from, near, nil
}

func haversineMeters(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
