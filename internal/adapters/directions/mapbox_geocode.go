package directions

import (
	"ae-dashboard-service/internal/domain"
	"ae-dashboard-service/internal/platform/obs"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
)

type geocodeResponse struct {
	Features []struct {
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"`
	} `json:"features"`
}

// Geocode resolves a free-text place in Hong Kong to coordinates.
// The cache, when configured, is consulted first; write failures are logged
// and otherwise ignored.
func (m *MapboxProvider) Geocode(ctx context.Context, query string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "mapbox.Geocode")(&err)

	norm := normalize(query)
	if norm == "" {
		return domain.Coordinates{}, fmt.Errorf("mapbox geocode: query must be non-empty: %w", domain.ErrInput)
	}

	if m.geocodeCache != nil {
		hits, err := m.geocodeCache.GetMany(ctx, []string{norm})
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("mapbox geocode: read cache: %w", err)
		}
		if c, ok := hits[norm]; ok {
			return c, nil
		}
	}

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json", m.baseURL, url.PathEscape(norm))

	params := url.Values{}
	params.Set("country", "hk")
	params.Set("limit", "1")

	req, err := m.newRequest(ctx, endpoint, params)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("mapbox geocode: %w", err)
	}

	resp, err := m.do(req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("mapbox geocode %q: %w", norm, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("mapbox geocode: decode response: %w: %w", domain.ErrParse, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("mapbox geocode: no match for %q: %w", norm, domain.ErrInput)
	}

	center := decoded.Features[0].Center
	if len(center) != 2 {
		return domain.Coordinates{}, fmt.Errorf("mapbox geocode: invalid coordinate format for %q: %w", norm, domain.ErrParse)
	}

	c := domain.Coordinates{Lon: center[0], Lat: center[1]}
	if !c.Valid() {
		return domain.Coordinates{}, fmt.Errorf("mapbox geocode: coordinates out of range for %q: %w", norm, domain.ErrParse)
	}

	if m.geocodeCache != nil {
		if err := m.geocodeCache.PutMany(ctx, map[string]domain.Coordinates{norm: c}); err != nil {
			log.Printf("req_id=%s geocode cache write failed: %v", obs.RequestID(ctx), err)
		}
	}

	return c, nil
}
