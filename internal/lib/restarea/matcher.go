package restarea

import (
	"github.com/hyugeso/planner/server/internal/lib/geo"
	"github.com/hyugeso/planner/server/internal/lib/routing"
)

// Matcher selects the catalog records relevant to one trip. It holds only
// configuration and is safe for concurrent use.
type Matcher struct {
	index routing.ProximityIndex
}

// NewMatcher creates a Matcher using index for route proximity.
func NewMatcher(index routing.ProximityIndex) *Matcher {
	return &Matcher{index: index}
}

// ProximityIndex returns the matcher's proximity configuration.
func (m *Matcher) ProximityIndex() routing.ProximityIndex {
	return m.index
}

// Match returns the records that are near the route, face the trip's
// direction and satisfy criteria, in catalog order.
func (m *Matcher) Match(catalog []RestArea, route routing.Route, criteria FilterCriteria) []RestArea {
	matches, _ := m.MatchWithStats(catalog, route, criteria)
	return matches
}

// MatchWithStats is Match plus rejection counts. Checks short-circuit in a
// fixed order: proximity, direction, featured food, EV, gas.
func (m *Matcher) MatchWithStats(catalog []RestArea, route routing.Route, criteria FilterCriteria) ([]RestArea, MatchStats) {
	direction := routing.Classify(route)
	matches := make([]RestArea, 0)
	stats := MatchStats{Considered: len(catalog)}

	for _, r := range catalog {
		switch {
		case !m.index.IsNear(r.Location, route):
			stats.RejectedProximity++
		case r.Direction != direction:
			stats.RejectedDirection++
		case criteria.OnlyBestFood && !r.HasFeaturedFood():
			stats.RejectedFood++
		case criteria.HasEV && !r.HasEV:
			stats.RejectedEV++
		case criteria.HasGas && !r.HasGas:
			stats.RejectedGas++
		default:
			matches = append(matches, r)
		}
	}

	stats.Matched = len(matches)
	return matches, stats
}

// MatchPoints validates points as a route before matching. Invalid routes
// fail with routing.ErrInvalidRoute instead of yielding an empty result.
func (m *Matcher) MatchPoints(catalog []RestArea, points []geo.Point, criteria FilterCriteria) ([]RestArea, error) {
	route, err := routing.NewRoute(points)
	if err != nil {
		return nil, err
	}
	return m.Match(catalog, route, criteria), nil
}

// Rank matches the catalog and orders the result into a timeline.
func (m *Matcher) Rank(catalog []RestArea, route routing.Route, criteria FilterCriteria) []MatchedRestArea {
	return BuildTimeline(m.Match(catalog, route, criteria), route)
}
