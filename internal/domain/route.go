package domain

import (
	"fmt"
	"strings"
	"time"
)

type TransportMode string

const (
	ModeDriving TransportMode = "driving"
	ModeWalking TransportMode = "walking"
	ModeCycling TransportMode = "cycling"
)

// ParseTransportMode accepts the user-facing mode names; empty means driving.
func ParseTransportMode(s string) (TransportMode, error) {
	switch TransportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDriving:
		return ModeDriving, nil
	case ModeWalking:
		return ModeWalking, nil
	case ModeCycling:
		return ModeCycling, nil
	default:
		return "", fmt.Errorf("unsupported transport mode %q: %w", s, ErrInput)
	}
}

// Traffic condition along a route, derived from provider annotations.
type TrafficCondition string

const (
	TrafficSmooth    TrafficCondition = "smooth"
	TrafficModerate  TrafficCondition = "moderate"
	TrafficCongested TrafficCondition = "congested"
	TrafficJammed    TrafficCondition = "jammed"
	TrafficUnknown   TrafficCondition = "unknown"
)

// Represents one candidate path returned by the directions provider.
// TypicalDurationSeconds is zero when the provider has no typical-traffic
// estimate; TrafficDelaySeconds is then zero as well.
type RouteOption struct {
	Name                   string
	DistanceMeters         int
	DurationSeconds        int
	TypicalDurationSeconds int
	TrafficDelaySeconds    int
	Traffic                TrafficCondition
	Geometry               []Coordinates
}

// Represents the answer to a single user route query.
// Route is the fastest option; Alternatives holds the remaining options
// ordered by ascending duration. It lives only as long as the current
// hospital selection.
type RouteResult struct {
	Origin            string
	OriginCoordinates Coordinates
	HospitalID        string
	Mode              TransportMode
	Route             RouteOption
	Alternatives      []RouteOption
	RequestedAt       time.Time
}
