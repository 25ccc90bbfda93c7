package directions

import (
	"ae-dashboard-service/internal/domain"
	"ae-dashboard-service/internal/platform/obs"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"
)

type directionsResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance        float64  `json:"distance"`
		Duration        float64  `json:"duration"`
		DurationTypical *float64 `json:"duration_typical"`
		Geometry        struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Legs []struct {
			Summary    string `json:"summary"`
			Annotation struct {
				Speed []*float64 `json:"speed"`
			} `json:"annotation"`
		} `json:"legs"`
	} `json:"routes"`
}

// Directions fetches every route Mapbox offers between two points, in the
// provider's order. Distances and durations are rounded to whole units.
func (m *MapboxProvider) Directions(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	mode domain.TransportMode,
) (_ []domain.RouteOption, err error) {
	defer obs.Time(ctx, "mapbox.Directions")(&err)

	profile, err := profileFor(mode)
	if err != nil {
		return nil, fmt.Errorf("mapbox directions: %w", err)
	}

	endpoint := fmt.Sprintf("%s/directions/v5/mapbox/%s/%s;%s", m.baseURL, profile, origin, destination)

	params := url.Values{}
	params.Set("alternatives", "true")
	params.Set("geometries", "geojson")
	params.Set("overview", "full")
	params.Set("annotations", "speed")

	req, err := m.newRequest(ctx, endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("mapbox directions: %w", err)
	}

	resp, err := m.do(req)
	if err != nil {
		return nil, fmt.Errorf("mapbox directions: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("mapbox directions: decode response: %w: %w", domain.ErrParse, err)
	}

	switch {
	case dr.Code == "Ok":
	case isInputCode(dr.Code):
		return nil, fmt.Errorf("mapbox directions: %s %s: %w", dr.Code, dr.Message, domain.ErrInput)
	case dr.Code == "":
		return nil, fmt.Errorf("mapbox directions: response without code: %w", domain.ErrParse)
	default:
		return nil, fmt.Errorf("mapbox directions: %s %s: %w", dr.Code, dr.Message, domain.ErrNetwork)
	}

	if len(dr.Routes) == 0 {
		return nil, fmt.Errorf("mapbox directions: no route found: %w", domain.ErrInput)
	}

	out := make([]domain.RouteOption, 0, len(dr.Routes))
	for i, r := range dr.Routes {
		opt := domain.RouteOption{
			DistanceMeters:  int(math.Round(r.Distance)),
			DurationSeconds: int(math.Round(r.Duration)),
			Geometry:        make([]domain.Coordinates, 0, len(r.Geometry.Coordinates)),
		}

		if r.DurationTypical != nil && *r.DurationTypical > 0 {
			opt.TypicalDurationSeconds = int(math.Round(*r.DurationTypical))
			opt.TrafficDelaySeconds = opt.DurationSeconds - opt.TypicalDurationSeconds
		}

		for _, c := range r.Geometry.Coordinates {
			if len(c) < 2 {
				continue
			}
			opt.Geometry = append(opt.Geometry, domain.Coordinates{Lon: c[0], Lat: c[1]})
		}

		summaries := make([]string, 0, len(r.Legs))
		speeds := make([]float64, 0)
		for _, leg := range r.Legs {
			if s := strings.TrimSpace(leg.Summary); s != "" {
				summaries = append(summaries, s)
			}
			for _, v := range leg.Annotation.Speed {
				if v != nil {
					speeds = append(speeds, *v)
				}
			}
		}

		opt.Name = strings.Join(summaries, " / ")
		if opt.Name == "" {
			opt.Name = fmt.Sprintf("Route %d", i+1)
		}

		opt.Traffic = trafficCondition(mode, speeds, opt.DurationSeconds, opt.TypicalDurationSeconds)
		out = append(out, opt)
	}

	return out, nil
}

// trafficCondition grades a driving route from the mean annotated speed
// (m/s), or failing that from the ratio of current to typical duration.
// Walking and cycling routes have no traffic grade.
func trafficCondition(mode domain.TransportMode, speeds []float64, duration, typical int) domain.TrafficCondition {
	if mode != domain.ModeDriving && mode != "" {
		return domain.TrafficUnknown
	}

	if len(speeds) > 0 {
		var sum float64
		for _, s := range speeds {
			sum += s
		}
		kmh := sum / float64(len(speeds)) * 3.6

		switch {
		case kmh >= 40:
			return domain.TrafficSmooth
		case kmh >= 25:
			return domain.TrafficModerate
		case kmh >= 15:
			return domain.TrafficCongested
		default:
			return domain.TrafficJammed
		}
	}

	if typical > 0 {
		ratio := float64(duration) / float64(typical)

		switch {
		case ratio <= 1.1:
			return domain.TrafficSmooth
		case ratio <= 1.3:
			return domain.TrafficModerate
		case ratio <= 1.6:
			return domain.TrafficCongested
		default:
			return domain.TrafficJammed
		}
	}

	return domain.TrafficUnknown
}
