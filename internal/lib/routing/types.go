package routing

import (
	"errors"

	"github.com/hyugeso/planner/server/internal/lib/geo"
)

// Direction is the highway's own travel-direction label.
type Direction string

const (
	UpBound   Direction = "상행" // toward the corridor's northern terminus
	DownBound Direction = "하행" // toward the southern terminus
)

// ErrInvalidRoute is returned for routes with fewer than two points or with
// coordinates that fail geo.Validate.
var ErrInvalidRoute = errors.New("invalid route")

// ProximityMode selects how IsNear measures closeness to a route.
type ProximityMode string

const (
	// Sampled checks every Stride-th route point. A rest area beside a long
	// segment between two unsampled points is reported as not near.
	Sampled ProximityMode = "sampled"
	// Exact measures the distance to every segment of the route.
	Exact ProximityMode = "exact"
)

// Route is an ordered path from origin to destination in traversal order.
// Values are only built by NewRoute or RouteFromLngLat, so a Route always has
// at least two valid points.
type Route struct {
	points []geo.Point
}

// Summary holds the trip metadata shown above the timeline.
type Summary struct {
	DistanceMeters   float64 `json:"distance_meters"`
	DistanceKm       float64 `json:"distance_km"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	DurationLabel    string  `json:"duration_label"`
}
