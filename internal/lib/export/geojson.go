package export

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/hyugeso/planner/server/internal/lib/restarea"
	"github.com/hyugeso/planner/server/internal/lib/routing"
)

// GeoJSON returns the route as a LineString feature followed by one Point
// feature per timeline entry.
func GeoJSON(route routing.Route, entries []restarea.TimelineEntry) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := make(orb.LineString, route.Len())
	for i := range line {
		p := route.At(i)
		line[i] = orb.Point{p.Longitude, p.Latitude}
	}
	routeFeature := geojson.NewFeature(line)
	routeFeature.Properties["kind"] = "route"
	routeFeature.Properties["direction"] = string(routing.Classify(route))
	fc.Append(routeFeature)

	for _, e := range entries {
		f := geojson.NewFeature(orb.Point{e.Location.Longitude, e.Location.Latitude})
		f.ID = e.ID
		f.Properties["kind"] = "rest_area"
		f.Properties["position"] = e.Position
		f.Properties["name"] = e.DisplayName
		f.Properties["route_no"] = e.RouteNo
		f.Properties["direction"] = string(e.Direction)
		f.Properties["distance_from_origin"] = e.DistanceFromOrigin
		f.Properties["best"] = e.Best
		f.Properties["has_ev"] = e.HasEV
		f.Properties["has_gas"] = e.HasGas
		fc.Append(f)
	}

	return fc
}
