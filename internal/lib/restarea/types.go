package restarea

import (
	"github.com/hyugeso/planner/server/internal/lib/geo"
	"github.com/hyugeso/planner/server/internal/lib/routing"
)

// RestArea is a validated catalog record with canonical flag values.
type RestArea struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Location    geo.Point         `json:"location"`
	RouteNo     string            `json:"route_no"`
	Direction   routing.Direction `json:"direction"`
	Food        string            `json:"food,omitempty"` // signature menu; empty means none featured
	Rating      *float64          `json:"rating,omitempty"`
	HasEV       bool              `json:"has_ev"`
	HasGas      bool              `json:"has_gas"`
	HasPharmacy bool              `json:"has_pharmacy"`
	HasBaby     bool              `json:"has_baby"`
	Desc        string            `json:"desc,omitempty"`
}

// HasFeaturedFood reports whether the rest area advertises a signature menu.
func (r RestArea) HasFeaturedFood() bool {
	return r.Food != ""
}

// RawRestArea is a catalog record as the route provider serializes it. Ids,
// coordinates and ratings arrive as numbers or strings; flags as booleans,
// 0/1 or "0"/"1".
type RawRestArea struct {
	ID          any    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Lat         any    `json:"lat" yaml:"lat"`
	Lng         any    `json:"lng" yaml:"lng"`
	RouteNo     string `json:"route_no" yaml:"route_no"`
	Direction   string `json:"direction" yaml:"direction"`
	Food        string `json:"food,omitempty" yaml:"food"`
	Rating      any    `json:"rating,omitempty" yaml:"rating"`
	HasEV       Flag   `json:"has_ev" yaml:"has_ev"`
	HasGas      Flag   `json:"has_gas" yaml:"has_gas"`
	HasPharmacy Flag   `json:"has_pharmacy" yaml:"has_pharmacy"`
	HasBaby     Flag   `json:"has_baby" yaml:"has_baby"`
	Desc        string `json:"desc,omitempty" yaml:"desc"`
}

// FilterCriteria are the user's amenity toggles. The zero value filters nothing.
type FilterCriteria struct {
	OnlyBestFood bool `json:"only_best_food"`
	HasEV        bool `json:"has_ev"`
	HasGas       bool `json:"has_gas"`
}

// MatchedRestArea is a matched record with its straight-line distance from
// the route origin in meters.
type MatchedRestArea struct {
	RestArea
	DistanceFromOrigin float64 `json:"distance_from_origin"`
}

// MatchStats counts why candidates were dropped during one Match run.
type MatchStats struct {
	Considered        int `json:"considered"`
	RejectedProximity int `json:"rejected_proximity"`
	RejectedDirection int `json:"rejected_direction"`
	RejectedFood      int `json:"rejected_food"`
	RejectedEV        int `json:"rejected_ev"`
	RejectedGas       int `json:"rejected_gas"`
	Matched           int `json:"matched"`
}
