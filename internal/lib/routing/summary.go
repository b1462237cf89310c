package routing

import (
	"fmt"
	"math"

	"github.com/hyugeso/planner/server/internal/lib/geo"
)

// AverageSpeedKmh is the cruising speed assumed for travel-time estimates.
const AverageSpeedKmh = 90.0

// Summarize measures the route and estimates the driving time.
func Summarize(route Route) Summary {
	meters := geo.PathLength(route.points)
	minutes := int(math.Round(meters / 1000 / AverageSpeedKmh * 60))

	return Summary{
		DistanceMeters:   meters,
		DistanceKm:       math.Round(meters/100) / 10,
		EstimatedMinutes: minutes,
		DurationLabel:    FormatDuration(minutes),
	}
}

// FormatDuration renders minutes as "M분" or "H시간 M분".
func FormatDuration(totalMinutes int) string {
	h := totalMinutes / 60
	m := totalMinutes % 60
	if h == 0 {
		return fmt.Sprintf("%d분", m)
	}
	return fmt.Sprintf("%d시간 %d분", h, m)
}
