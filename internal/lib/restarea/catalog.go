package restarea

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyugeso/planner/server/internal/lib/geo"
	"github.com/hyugeso/planner/server/internal/lib/routing"
)

var (
	ErrMissingID          = errors.New("missing id")
	ErrMissingCoordinates = errors.New("missing coordinates")
	ErrDuplicateID        = errors.New("duplicate id")
)

// Format identifies a catalog serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeCatalog reads a list of raw records. Empty input is an empty catalog.
func DecodeCatalog(r io.Reader, format Format) ([]RawRestArea, error) {
	var raw []RawRestArea

	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&raw)
	case FormatJSON, "":
		err = json.NewDecoder(r).Decode(&raw)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode %s catalog: %w", format, err)
	}
	return raw, nil
}

// Problem describes one catalog record that was skipped.
type Problem struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// IngestReport summarizes an Ingest run.
type IngestReport struct {
	Accepted int       `json:"accepted"`
	Skipped  int       `json:"skipped"`
	Problems []Problem `json:"problems,omitempty"`
}

// Ingest validates raw records and converts them to RestArea values. Records
// without an id, without usable coordinates, or repeating an earlier id are
// skipped and reported; they never abort the run.
func Ingest(raw []RawRestArea) ([]RestArea, IngestReport) {
	areas := make([]RestArea, 0, len(raw))
	report := IngestReport{}
	seen := make(map[string]bool, len(raw))

	for i, record := range raw {
		area, err := convert(record)
		if err == nil && seen[area.ID] {
			err = ErrDuplicateID
		}
		if err != nil {
			report.Skipped++
			report.Problems = append(report.Problems, Problem{
				Index:  i,
				ID:     area.ID,
				Reason: err.Error(),
				Err:    err,
			})
			continue
		}

		seen[area.ID] = true
		areas = append(areas, area)
	}

	report.Accepted = len(areas)
	return areas, report
}

func convert(record RawRestArea) (RestArea, error) {
	id, ok := formatID(record.ID)
	if !ok {
		return RestArea{}, ErrMissingID
	}

	lat, latOK := parseNumber(record.Lat)
	lng, lngOK := parseNumber(record.Lng)
	if !latOK || !lngOK {
		return RestArea{ID: id}, ErrMissingCoordinates
	}

	location, err := geo.NewPoint(lat, lng)
	if err != nil {
		return RestArea{ID: id}, err
	}

	area := RestArea{
		ID:          id,
		Name:        record.Name,
		Location:    location,
		RouteNo:     record.RouteNo,
		Direction:   routing.Direction(strings.TrimSpace(record.Direction)),
		Food:        record.Food,
		HasEV:       bool(record.HasEV),
		HasGas:      bool(record.HasGas),
		HasPharmacy: bool(record.HasPharmacy),
		HasBaby:     bool(record.HasBaby),
		Desc:        record.Desc,
	}
	if rating, ok := parseNumber(record.Rating); ok {
		area.Rating = &rating
	}

	return area, nil
}

func formatID(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return "", false
	}
}

// parseNumber accepts finite numbers and numeric strings. NaN and infinities
// count as absent.
func parseNumber(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
