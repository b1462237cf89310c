package geo

import "errors"

// EarthRadiusMeters is the mean Earth radius used by every distance in this package.
const EarthRadiusMeters = 6371000.0

// ErrInvalidCoordinate is returned when a latitude/longitude pair is not finite
// or falls outside [-90, 90] / [-180, 180].
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point represents a geographic coordinate
type Point struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lng" yaml:"lng"`
}

// LngLat returns the point in provider order ([longitude, latitude]).
func (p Point) LngLat() []float64 {
	return []float64{p.Longitude, p.Latitude}
}
