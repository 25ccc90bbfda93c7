package directions

import (
	"ae-dashboard-service/internal/domain"
	"ae-dashboard-service/internal/ports"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.mapbox.com"

// MapboxProvider implements Geocoder and RouteProvider using the Mapbox
// geocoding and directions APIs.
//
// It coordinates:
//   - Query normalization
//   - Optional persistent geocode caching
//   - Single directions calls with traffic annotations
//
// Routes are never cached. The provider is safe for concurrent use.
type MapboxProvider struct {
	session      *http.Client
	token        string
	baseURL      string
	geocodeCache ports.GeocodeCache
}

type Option func(*MapboxProvider)

// WithBaseURL points the provider at another host, e.g. an httptest server.
func WithBaseURL(u string) Option {
	return func(m *MapboxProvider) { m.baseURL = strings.TrimRight(u, "/") }
}

func WithTimeout(d time.Duration) Option {
	return func(m *MapboxProvider) {
		if d > 0 {
			m.session.Timeout = d
		}
	}
}

func WithGeocodeCache(c ports.GeocodeCache) Option {
	return func(m *MapboxProvider) { m.geocodeCache = c }
}

func NewMapboxProvider(token string, opts ...Option) (*MapboxProvider, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("mapbox token is empty")
	}

	m := &MapboxProvider{
		session: &http.Client{Timeout: 15 * time.Second},
		token:   strings.TrimSpace(token),
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// normalize ensures consistent cache keys by collapsing whitespace and case.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func profileFor(mode domain.TransportMode) (string, error) {
	switch mode {
	case domain.ModeDriving, "":
		return "driving-traffic", nil
	case domain.ModeWalking:
		return "walking", nil
	case domain.ModeCycling:
		return "cycling", nil
	default:
		return "", fmt.Errorf("unsupported transport mode %q: %w", mode, domain.ErrInput)
	}
}
