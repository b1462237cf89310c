package export

import (
	"fmt"
	"io"

	"github.com/twpayne/go-kml"

	"github.com/hyugeso/planner/server/internal/lib/restarea"
	"github.com/hyugeso/planner/server/internal/lib/routing"
)

// WriteKML renders the route as a LineString placemark followed by one point
// placemark per timeline entry, in timeline order.
func WriteKML(w io.Writer, name string, route routing.Route, entries []restarea.TimelineEntry) error {
	children := []kml.Element{
		kml.Name(name),
		routePlacemark(route),
	}

	for _, e := range entries {
		children = append(children, kml.Placemark(
			kml.Name(fmt.Sprintf("%d. %s", e.Position, e.DisplayName)),
			kml.Description(entryDescription(e)),
			kml.Point(
				kml.Coordinates(kml.Coordinate{Lon: e.Location.Longitude, Lat: e.Location.Latitude}),
			),
		))
	}

	if err := kml.KML(kml.Document(children...)).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write KML: %w", err)
	}
	return nil
}

func routePlacemark(route routing.Route) kml.Element {
	coords := make([]kml.Coordinate, route.Len())
	for i := range coords {
		p := route.At(i)
		coords[i] = kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
	}

	return kml.Placemark(
		kml.Name("route"),
		kml.LineString(
			kml.Tessellate(true),
			kml.Coordinates(coords...),
		),
	)
}

func entryDescription(e restarea.TimelineEntry) string {
	return fmt.Sprintf("%s %s | ★ %s | %s | %.1f km", e.RouteNo, e.Direction, e.RatingLabel, e.FoodLabel, e.DistanceKm)
}
