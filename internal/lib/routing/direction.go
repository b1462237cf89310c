package routing

import "github.com/hyugeso/planner/server/internal/lib/geo"

// Classify infers the trip's travel direction from the route endpoints.
//
// A destination south of the origin is down-bound; anything else, including
// an exact latitude tie, is up-bound. This is a deliberate north/south
// approximation that fits Korea's mostly north-south expressway corridors.
// It is not a lookup of the highway's real direction and east-west trips
// classify by whatever small latitude change they have.
func Classify(route Route) Direction {
	if route.Destination().Latitude < route.Origin().Latitude {
		return DownBound
	}
	return UpBound
}

// ClassifyPoints validates points as a route and classifies it.
func ClassifyPoints(points []geo.Point) (Direction, error) {
	route, err := NewRoute(points)
	if err != nil {
		return "", err
	}
	return Classify(route), nil
}
