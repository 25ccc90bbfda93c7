package directions

import (
	"ae-dashboard-service/internal/domain"
	"context"
	"fmt"
	"sync"
)

// MockProvider is an in-memory Geocoder and RouteProvider that records how
// often it was called.
type MockProvider struct {
	mu              sync.Mutex
	places          map[string]domain.Coordinates
	routes          []domain.RouteOption
	err             error
	geocodeCalls    int
	directionsCalls int
}

func NewMockProvider(routes ...domain.RouteOption) *MockProvider {
	return &MockProvider{
		places: make(map[string]domain.Coordinates),
		routes: routes,
	}
}

// WithPlace registers a geocoding answer for query.
func (p *MockProvider) WithPlace(query string, c domain.Coordinates) *MockProvider {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.places[normalize(query)] = c
	return p
}

// FailWith makes every later call return err.
func (p *MockProvider) FailWith(err error) *MockProvider {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.err = err
	return p
}

func (p *MockProvider) Geocode(ctx context.Context, query string) (domain.Coordinates, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.geocodeCalls++
	if p.err != nil {
		return domain.Coordinates{}, p.err
	}

	c, ok := p.places[normalize(query)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("mock geocode: no match for %q: %w", query, domain.ErrInput)
	}
	return c, nil
}

func (p *MockProvider) Directions(ctx context.Context, origin, destination domain.Coordinates, mode domain.TransportMode) ([]domain.RouteOption, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.directionsCalls++
	if p.err != nil {
		return nil, p.err
	}

	return append([]domain.RouteOption(nil), p.routes...), nil
}

// Calls returns the number of Geocode and Directions calls so far.
func (p *MockProvider) Calls() (geocode, directions int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.geocodeCalls, p.directionsCalls
}
