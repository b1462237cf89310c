package routing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyugeso/planner/server/internal/lib/geo"
)

// meridianRoute returns n points heading north from (37.0, 127.0), ~1.1km apart.
func meridianRoute(t testing.TB, n int) Route {
	points := make([]geo.Point, n)
	for i := range points {
		points[i] = geo.Point{Latitude: 37.0 + float64(i)*0.01, Longitude: 127.0}
	}
	route, err := NewRoute(points)
	require.NoError(t, err)
	return route
}

func TestNewRoute(t *testing.T) {
	route, err := NewRoute([]geo.Point{
		{Latitude: 37.50, Longitude: 127.00},
		{Latitude: 36.00, Longitude: 127.50},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, route.Len())
	assert.Equal(t, geo.Point{Latitude: 37.50, Longitude: 127.00}, route.Origin())
	assert.Equal(t, geo.Point{Latitude: 36.00, Longitude: 127.50}, route.Destination())
}

func TestNewRoute_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		points []geo.Point
	}{
		{"empty", nil},
		{"single point", []geo.Point{{Latitude: 37.5, Longitude: 127.0}}},
		{"nan", []geo.Point{{Latitude: 37.5, Longitude: 127.0}, {Latitude: math.NaN(), Longitude: 127.0}}},
		{"out of range", []geo.Point{{Latitude: 37.5, Longitude: 127.0}, {Latitude: 37.5, Longitude: 270.0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRoute(tt.points)
			assert.ErrorIs(t, err, ErrInvalidRoute)
		})
	}
}

func TestNewRoute_CopiesInput(t *testing.T) {
	points := []geo.Point{
		{Latitude: 37.50, Longitude: 127.00},
		{Latitude: 36.00, Longitude: 127.50},
	}
	route, err := NewRoute(points)
	require.NoError(t, err)

	points[0].Latitude = 10
	assert.Equal(t, 37.50, route.Origin().Latitude)

	out := route.Points()
	out[1].Latitude = 10
	assert.Equal(t, 36.00, route.Destination().Latitude)
}

func TestRouteFromLngLat(t *testing.T) {
	route, err := RouteFromLngLat([][]float64{
		{127.00, 37.50},
		{127.50, 36.00},
	})
	require.NoError(t, err)
	assert.Equal(t, 37.50, route.Origin().Latitude)
	assert.Equal(t, 127.00, route.Origin().Longitude)
	assert.Equal(t, [][]float64{{127.00, 37.50}, {127.50, 36.00}}, route.LngLat())

	_, err = RouteFromLngLat([][]float64{{127.00, 37.50}, {127.50}})
	assert.ErrorIs(t, err, ErrInvalidRoute)

	_, err = RouteFromLngLat([][]float64{{127.00, 37.50}})
	assert.ErrorIs(t, err, ErrInvalidRoute)
}

func TestSummarize(t *testing.T) {
	route, err := NewRoute([]geo.Point{
		{Latitude: 37.0, Longitude: 127.0},
		{Latitude: 37.9, Longitude: 127.0},
	})
	require.NoError(t, err)

	summary := Summarize(route)
	assert.InDelta(t, 100075, summary.DistanceMeters, 10)
	assert.Equal(t, 100.1, summary.DistanceKm)
	assert.Equal(t, 67, summary.EstimatedMinutes)
	assert.Equal(t, "1시간 7분", summary.DurationLabel)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0분", FormatDuration(0))
	assert.Equal(t, "45분", FormatDuration(45))
	assert.Equal(t, "1시간 30분", FormatDuration(90))
	assert.Equal(t, "2시간 0분", FormatDuration(120))
}
