package restarea

import (
	"sort"

	"github.com/hyugeso/planner/server/internal/lib/geo"
	"github.com/hyugeso/planner/server/internal/lib/routing"
)

// BuildTimeline orders matches by straight-line distance from the route
// origin. Equal distances keep their input order.
func BuildTimeline(matches []RestArea, route routing.Route) []MatchedRestArea {
	origin := route.Origin()

	timeline := make([]MatchedRestArea, len(matches))
	for i, r := range matches {
		timeline[i] = MatchedRestArea{
			RestArea:           r,
			DistanceFromOrigin: geo.Distance(origin, r.Location),
		}
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].DistanceFromOrigin < timeline[j].DistanceFromOrigin
	})

	return timeline
}
