package routing

import (
	"fmt"

	"github.com/hyugeso/planner/server/internal/lib/geo"
)

// NewRoute validates points and wraps them in a Route. The slice is copied.
func NewRoute(points []geo.Point) (Route, error) {
	if len(points) < 2 {
		return Route{}, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidRoute, len(points))
	}

	owned := make([]geo.Point, len(points))
	for i, p := range points {
		if err := geo.Validate(p); err != nil {
			return Route{}, fmt.Errorf("%w: point %d: %v", ErrInvalidRoute, i, err)
		}
		owned[i] = p
	}

	return Route{points: owned}, nil
}

// RouteFromLngLat builds a Route from provider coordinate pairs, which arrive
// longitude first.
func RouteFromLngLat(pairs [][]float64) (Route, error) {
	points := make([]geo.Point, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) < 2 {
			return Route{}, fmt.Errorf("%w: point %d: expected [lng, lat], got %d value(s)", ErrInvalidRoute, i, len(pair))
		}
		points = append(points, geo.Point{Latitude: pair[1], Longitude: pair[0]})
	}
	return NewRoute(points)
}

// Len returns the number of points on the route.
func (r Route) Len() int {
	return len(r.points)
}

// At returns the i-th point.
func (r Route) At(i int) geo.Point {
	return r.points[i]
}

// Origin returns the first point of the route.
func (r Route) Origin() geo.Point {
	return r.points[0]
}

// Destination returns the last point of the route.
func (r Route) Destination() geo.Point {
	return r.points[len(r.points)-1]
}

// Points returns a copy of the route's points.
func (r Route) Points() []geo.Point {
	out := make([]geo.Point, len(r.points))
	copy(out, r.points)
	return out
}

// LngLat returns the route in provider order.
func (r Route) LngLat() [][]float64 {
	out := make([][]float64, len(r.points))
	for i, p := range r.points {
		out[i] = p.LngLat()
	}
	return out
}
