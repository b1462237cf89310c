package restarea

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyugeso/planner/server/internal/lib/geo"
	"github.com/hyugeso/planner/server/internal/lib/routing"
)

var (
	seoul     = geo.Point{Latitude: 37.50, Longitude: 127.00}
	cheonan   = geo.Point{Latitude: 36.80, Longitude: 127.30}
	daejeon   = geo.Point{Latitude: 36.00, Longitude: 127.50}
	gangneung = geo.Point{Latitude: 37.75, Longitude: 128.90}
)

// interpolate returns steps+1 evenly spaced points from a to b inclusive.
func interpolate(a, b geo.Point, steps int) []geo.Point {
	points := make([]geo.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		points = append(points, geo.Point{
			Latitude:  a.Latitude + f*(b.Latitude-a.Latitude),
			Longitude: a.Longitude + f*(b.Longitude-a.Longitude),
		})
	}
	return points
}

// southboundRoute runs Seoul -> Cheonan -> Daejeon in 21 points with Cheonan
// at index 10, which the default stride samples.
func southboundRoute(t testing.TB) routing.Route {
	points := interpolate(seoul, cheonan, 10)
	points = append(points, interpolate(cheonan, daejeon, 10)[1:]...)
	route, err := routing.NewRoute(points)
	require.NoError(t, err)
	return route
}

func northboundRoute(t testing.TB) routing.Route {
	points := southboundRoute(t).Points()
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	route, err := routing.NewRoute(points)
	require.NoError(t, err)
	return route
}

func rating(v float64) *float64 {
	return &v
}

// testCatalog has rest areas on both carriageways at sampled points of
// southboundRoute plus one far off the route.
func testCatalog(t testing.TB) []RestArea {
	route := southboundRoute(t)
	at := func(i int) geo.Point { return route.At(i) }

	return []RestArea{
		{ID: "1", Name: "천안삼거리", Location: at(10), RouteNo: "경부선", Direction: routing.DownBound, Food: "호두과자", Rating: rating(4.4), HasEV: true, HasGas: true},
		{ID: "2", Name: "천안삼거리", Location: at(10), RouteNo: "경부선", Direction: routing.UpBound, Food: "호두과자", HasEV: true, HasGas: true},
		{ID: "3", Name: "안성", Location: at(5), RouteNo: "경부선", Direction: routing.DownBound, HasGas: true},
		{ID: "4", Name: "망향휴게소", Location: at(15), RouteNo: "경부선", Direction: routing.DownBound, Food: "국밥", HasEV: true},
		{ID: "5", Name: "서울만남의광장", Location: at(0), RouteNo: "경부선", Direction: routing.DownBound},
		{ID: "6", Name: "강릉", Location: gangneung, RouteNo: "영동선", Direction: routing.DownBound, Food: "감자떡", HasEV: true, HasGas: true},
		{ID: "7", Name: "신탄진", Location: at(20), RouteNo: "경부선", Direction: routing.DownBound, HasEV: true, HasGas: true},
	}
}

func areaIDs(areas []RestArea) []string {
	out := make([]string, len(areas))
	for i, a := range areas {
		out[i] = a.ID
	}
	return out
}

func matchedIDs(matched []MatchedRestArea) []string {
	out := make([]string, len(matched))
	for i, m := range matched {
		out[i] = m.ID
	}
	return out
}
