package routing

import (
	"fmt"

	"github.com/hyugeso/planner/server/internal/lib/geo"
)

const (
	DefaultThresholdMeters = 1500.0
	DefaultStride          = 5
)

// ProximityIndex decides whether a point lies near a route.
type ProximityIndex struct {
	ThresholdMeters float64
	Stride          int
	Mode            ProximityMode
}

// DefaultProximityIndex samples every 5th route point with a 1.5km radius.
func DefaultProximityIndex() ProximityIndex {
	return ProximityIndex{
		ThresholdMeters: DefaultThresholdMeters,
		Stride:          DefaultStride,
		Mode:            Sampled,
	}
}

// ParseProximityMode maps a configuration string to a mode. Empty means Sampled.
func ParseProximityMode(s string) (ProximityMode, error) {
	switch ProximityMode(s) {
	case "", Sampled:
		return Sampled, nil
	case Exact:
		return Exact, nil
	default:
		return "", fmt.Errorf("unknown proximity mode %q", s)
	}
}

// IsNear reports whether point is within ThresholdMeters of the route.
//
// In Sampled mode route points 0, Stride, 2*Stride, ... are examined while the
// index is below the last point; the destination itself is never sampled.
// A Route has at least two points, so index 0 is always examined. The first
// qualifying sample wins.
func (x ProximityIndex) IsNear(point geo.Point, route Route) bool {
	if x.Mode == Exact {
		return geo.DistanceToPath(point, route.points) <= x.ThresholdMeters
	}

	stride := x.Stride
	if stride < 1 {
		stride = 1
	}

	last := len(route.points) - 1
	for i := 0; i < last; i += stride {
		if geo.Distance(point, route.points[i]) <= x.ThresholdMeters {
			return true
		}
	}
	return false
}

// SampleCount returns how many route points a Sampled check examines.
func (x ProximityIndex) SampleCount(route Route) int {
	stride := x.Stride
	if stride < 1 {
		stride = 1
	}

	count := 0
	last := len(route.points) - 1
	for i := 0; i < last; i += stride {
		count++
	}
	return count
}
