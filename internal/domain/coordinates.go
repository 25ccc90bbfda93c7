package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// String renders "lon,lat", the order used in directions URL paths.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lon, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lat, 'f', 6, 64)
}

func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// ParseCoordinates reads a user-entered "lat,lon" pair.
// The second return value is false when s is not a coordinate pair at all,
// which callers treat as a place name to geocode.
func ParseCoordinates(s string) (Coordinates, bool, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinates{}, false, nil
	}

	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		return Coordinates{}, false, nil
	}

	c := Coordinates{Lat: lat, Lon: lon}
	if !c.Valid() {
		return Coordinates{}, true, fmt.Errorf("coordinates %q out of range: %w", s, ErrInput)
	}

	return c, true, nil
}
