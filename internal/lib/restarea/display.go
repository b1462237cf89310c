package restarea

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	restAreaSuffix     = "휴게소"
	defaultRatingLabel = "4.5"
	defaultFoodLabel   = "간식 맛집"
	defaultMenuName    = "정보 없음"
	defaultMenuDesc    = "이 휴게소의 인기 메뉴입니다."
	kakaoMapSearchURL  = "https://map.kakao.com/link/search/"
	AccentEV           = "ev"
	AccentDefault      = "default"
)

// Facilities lists the amenity flags shown as icons in the detail view.
type Facilities struct {
	Gas      bool `json:"gas"`
	EV       bool `json:"ev"`
	Pharmacy bool `json:"pharmacy"`
	Baby     bool `json:"baby"`
}

// TimelineEntry is a ranked rest area with the fields the timeline and the
// detail view display. It carries the full record, so no lookup back into the
// catalog is needed.
type TimelineEntry struct {
	MatchedRestArea
	Position    int        `json:"position"`
	DisplayName string     `json:"display_name"`
	RatingLabel string     `json:"rating_label"`
	FoodLabel   string     `json:"food_label"`
	MenuName    string     `json:"menu_name"`
	MenuDesc    string     `json:"menu_desc"`
	Best        bool       `json:"best"`
	Accent      string     `json:"accent"`
	Facilities  Facilities `json:"facilities"`
	MapURL      string     `json:"map_url"`
	DistanceKm  float64    `json:"distance_km"`
}

// DisplayName appends "휴게소" unless the name already ends with it.
func DisplayName(name string) string {
	if strings.HasSuffix(name, restAreaSuffix) {
		return name
	}
	return name + restAreaSuffix
}

// NewTimelineEntry derives display fields for the entry at 1-based position.
func NewTimelineEntry(m MatchedRestArea, position int) TimelineEntry {
	name := DisplayName(m.Name)

	entry := TimelineEntry{
		MatchedRestArea: m,
		Position:        position,
		DisplayName:     name,
		RatingLabel:     defaultRatingLabel,
		FoodLabel:       defaultFoodLabel,
		MenuName:        defaultMenuName,
		MenuDesc:        defaultMenuDesc,
		Best:            m.HasFeaturedFood(),
		Accent:          AccentDefault,
		Facilities: Facilities{
			Gas:      m.HasGas,
			EV:       m.HasEV,
			Pharmacy: m.HasPharmacy,
			Baby:     m.HasBaby,
		},
		MapURL:     kakaoMapSearchURL + url.PathEscape(name+" "+string(m.Direction)),
		DistanceKm: math.Round(m.DistanceFromOrigin/100) / 10,
	}

	if m.Rating != nil && *m.Rating != 0 {
		entry.RatingLabel = strconv.FormatFloat(*m.Rating, 'f', -1, 64)
	}
	if m.HasFeaturedFood() {
		entry.FoodLabel = m.Food
		entry.MenuName = m.Food
	}
	if m.Desc != "" {
		entry.MenuDesc = m.Desc
	}
	if m.HasEV {
		entry.Accent = AccentEV
	}

	return entry
}

// BuildEntries decorates a ranked timeline, preserving its order.
func BuildEntries(timeline []MatchedRestArea) []TimelineEntry {
	entries := make([]TimelineEntry, len(timeline))
	for i, m := range timeline {
		entries[i] = NewTimelineEntry(m, i+1)
	}
	return entries
}

// Lookup maps rest-area ids to entries for one rendered result. Callers own
// it and drop it with the result.
type Lookup map[string]TimelineEntry

// NewLookup indexes entries by id.
func NewLookup(entries []TimelineEntry) Lookup {
	lookup := make(Lookup, len(entries))
	for _, e := range entries {
		lookup[e.ID] = e
	}
	return lookup
}

// Get returns the entry for id.
func (l Lookup) Get(id string) (TimelineEntry, bool) {
	e, ok := l[id]
	return e, ok
}
