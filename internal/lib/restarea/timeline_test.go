package restarea

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyugeso/planner/server/internal/lib/geo"
	"github.com/hyugeso/planner/server/internal/lib/routing"
)

func TestBuildTimeline_Order(t *testing.T) {
	matcher := NewMatcher(routing.DefaultProximityIndex())
	route := southboundRoute(t)

	timeline := BuildTimeline(matcher.Match(testCatalog(t), route, FilterCriteria{}), route)

	assert.Equal(t, []string{"5", "3", "1", "4"}, matchedIDs(timeline))
	assert.Equal(t, 0.0, timeline[0].DistanceFromOrigin)
	for i := 1; i < len(timeline); i++ {
		assert.LessOrEqual(t, timeline[i-1].DistanceFromOrigin, timeline[i].DistanceFromOrigin)
	}
}

func TestBuildTimeline_StableTies(t *testing.T) {
	route, err := routing.NewRoute([]geo.Point{
		{Latitude: 37.0, Longitude: 0},
		{Latitude: 36.0, Longitude: 0},
	})
	require.NoError(t, err)

	east := RestArea{ID: "east", Location: geo.Point{Latitude: 37.0, Longitude: 0.01}}
	west := RestArea{ID: "west", Location: geo.Point{Latitude: 37.0, Longitude: -0.01}}
	twin := RestArea{ID: "twin", Location: east.Location}
	near := RestArea{ID: "near", Location: geo.Point{Latitude: 37.0, Longitude: 0.001}}

	require.Equal(t, geo.Distance(route.Origin(), east.Location), geo.Distance(route.Origin(), west.Location))

	timeline := BuildTimeline([]RestArea{east, west, twin, near}, route)
	assert.Equal(t, []string{"near", "east", "west", "twin"}, matchedIDs(timeline))

	timeline = BuildTimeline([]RestArea{twin, west, near, east}, route)
	assert.Equal(t, []string{"near", "twin", "west", "east"}, matchedIDs(timeline))
}

func TestBuildTimeline_DoesNotMutateInput(t *testing.T) {
	route := southboundRoute(t)
	matches := testCatalog(t)[:5]
	before := append([]RestArea(nil), matches...)

	_ = BuildTimeline(matches, route)
	assert.Equal(t, before, matches)
}
