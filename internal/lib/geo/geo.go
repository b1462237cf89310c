package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
	"github.com/twpayne/go-polyline"
)

// Distance calculates great-circle distance between two points using the Haversine formula.
// It is total: callers validate coordinates at the boundary.
func Distance(p1, p2 Point) float64 {
	if p1.Latitude == p2.Latitude && p1.Longitude == p2.Longitude {
		return 0
	}

	lat1 := toRadians(p1.Latitude)
	lon1 := toRadians(p1.Longitude)
	lat2 := toRadians(p2.Latitude)
	lon2 := toRadians(p2.Longitude)

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// PathLength sums the haversine length of consecutive segments.
func PathLength(points []Point) float64 {
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		total += Distance(points[i], points[i+1])
	}
	return total
}

// DistanceToPath returns the minimum great-circle distance in meters from point
// to the polyline through points. Unlike sampled proximity it considers every
// segment, so it is noticeably more expensive on long routes.
func DistanceToPath(point Point, points []Point) float64 {
	switch len(points) {
	case 0:
		return math.Inf(1)
	case 1:
		return Distance(point, points[0])
	}

	line := make(s2.Polyline, len(points))
	for i, p := range points {
		line[i] = s2.PointFromLatLng(s2.LatLngFromDegrees(p.Latitude, p.Longitude))
	}

	target := s2.PointFromLatLng(s2.LatLngFromDegrees(point.Latitude, point.Longitude))
	projected, _ := line.Project(target)

	return projected.Distance(target).Radians() * EarthRadiusMeters
}

// Coordinate Conversion Utilities

// Validate reports whether the point is finite and inside the WGS84 ranges.
func Validate(p Point) error {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) ||
		math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		return fmt.Errorf("%w: non-finite value (%v, %v)", ErrInvalidCoordinate, p.Latitude, p.Longitude)
	}
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: latitude must be [-90, 90], longitude must be [-180, 180], got (%v, %v)",
			ErrInvalidCoordinate, p.Latitude, p.Longitude)
	}
	return nil
}

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if err := Validate(point); err != nil {
		return Point{}, err
	}
	return point, nil
}

// FromLngLat converts a provider coordinate pair. Providers send longitude
// first, the reverse of Point's field order.
func FromLngLat(pair []float64) (Point, error) {
	if len(pair) < 2 {
		return Point{}, fmt.Errorf("%w: expected [lng, lat], got %d value(s)", ErrInvalidCoordinate, len(pair))
	}
	return NewPoint(pair[1], pair[0])
}

// DecodePolyline decodes Google polyline string to point sequence
func DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, fmt.Errorf("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		p, err := NewPoint(coord[0], coord[1])
		if err != nil {
			return nil, fmt.Errorf("decoded polyline point %d: %w", i, err)
		}
		points[i] = p
	}

	return points, nil
}

// EncodePolyline encodes points with Google's polyline algorithm (precision 5).
func EncodePolyline(points []Point) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
