package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyugeso/planner/server/internal/lib/export"
	"github.com/hyugeso/planner/server/internal/lib/geo"
	"github.com/hyugeso/planner/server/internal/lib/restarea"
	"github.com/hyugeso/planner/server/internal/lib/routing"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "match":
		handleMatch()
	case "direction":
		handleDirection()
	case "distance":
		handleDistance()
	case "polyline":
		handlePolyline()
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleMatch() {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	routeFile := fs.String("route", "", "Path to JSON/YAML file with [lng, lat] pairs")
	catalogFile := fs.String("catalog", "", "Path to JSON/YAML rest area catalog")
	best := fs.Bool("best", false, "Only rest areas with a signature menu")
	ev := fs.Bool("ev", false, "Only rest areas with EV charging")
	gas := fs.Bool("gas", false, "Only rest areas with a gas station")
	mode := fs.String("mode", string(routing.Sampled), "Proximity mode: sampled or exact")
	threshold := fs.Float64("threshold", routing.DefaultThresholdMeters, "Proximity threshold in meters")
	stride := fs.Int("stride", routing.DefaultStride, "Route sampling stride (sampled mode)")
	output := fs.String("output", "text", "Output format: text, json, kml or geojson")
	verbose := fs.Bool("verbose", false, "Show ingestion problems and rejection counts")

	fs.Parse(os.Args[2:])

	if *routeFile == "" || *catalogFile == "" {
		fmt.Println("Example usage:")
		fmt.Println("  test-rest-matcher match --route route.json --catalog rests.yaml")
		fmt.Println("  test-rest-matcher match --route route.json --catalog rests.json --ev --gas --verbose")
		fmt.Println("  test-rest-matcher match --route route.json --catalog rests.json --mode exact --output geojson")
		fmt.Println("")
		printSampleFiles()
		os.Exit(1)
	}

	proximityMode, err := routing.ParseProximityMode(*mode)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	route := loadRoute(*routeFile)
	catalog := loadCatalog(*catalogFile)

	areas, report := restarea.Ingest(catalog)
	matcher := restarea.NewMatcher(routing.ProximityIndex{
		ThresholdMeters: *threshold,
		Stride:          *stride,
		Mode:            proximityMode,
	})
	criteria := restarea.FilterCriteria{OnlyBestFood: *best, HasEV: *ev, HasGas: *gas}

	matched, stats := matcher.MatchWithStats(areas, route, criteria)
	entries := restarea.BuildEntries(restarea.BuildTimeline(matched, route))

	switch *output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			log.Fatalf("Error encoding JSON: %v", err)
		}
		return
	case "kml":
		if err := export.WriteKML(os.Stdout, *routeFile, route, entries); err != nil {
			log.Fatalf("Error writing KML: %v", err)
		}
		return
	case "geojson":
		if err := json.NewEncoder(os.Stdout).Encode(export.GeoJSON(route, entries)); err != nil {
			log.Fatalf("Error encoding GeoJSON: %v", err)
		}
		return
	case "text":
	default:
		log.Fatalf("Unknown output format: %s", *output)
	}

	summary := routing.Summarize(route)
	fmt.Printf("ROUTE:\n")
	fmt.Printf("  Points: %d\n", route.Len())
	fmt.Printf("  Direction: %s\n", routing.Classify(route))
	fmt.Printf("  Distance: %.1f km (about %s at %.0f km/h)\n", summary.DistanceKm, summary.DurationLabel, routing.AverageSpeedKmh)
	fmt.Printf("  Proximity: %s, %.0fm", proximityMode, *threshold)
	if proximityMode == routing.Sampled {
		fmt.Printf(", stride %d (%d samples)", *stride, matcher.ProximityIndex().SampleCount(route))
	}
	fmt.Printf("\n\n")

	fmt.Printf("CATALOG:\n")
	fmt.Printf("  Accepted: %d\n", report.Accepted)
	fmt.Printf("  Skipped: %d\n", report.Skipped)
	if *verbose {
		for _, p := range report.Problems {
			fmt.Printf("    ❌ record %d (id %q): %s\n", p.Index, p.ID, p.Reason)
		}
		fmt.Printf("\nREJECTIONS:\n")
		fmt.Printf("  Proximity: %d\n", stats.RejectedProximity)
		fmt.Printf("  Direction: %d\n", stats.RejectedDirection)
		fmt.Printf("  Food: %d\n", stats.RejectedFood)
		fmt.Printf("  EV: %d\n", stats.RejectedEV)
		fmt.Printf("  Gas: %d\n", stats.RejectedGas)
	}
	fmt.Printf("\n")

	if len(entries) == 0 {
		fmt.Printf("No rest areas match.\n")
		return
	}

	fmt.Printf("TIMELINE (%d):\n", len(entries))
	for _, e := range entries {
		marker := " "
		if e.Best {
			marker = "★"
		}
		fmt.Printf("  %2d. %s %-20s %6.1f km  %s %s  ★%s  %s\n",
			e.Position, marker, e.DisplayName, e.DistanceKm, e.RouteNo, e.Direction, e.RatingLabel, e.FoodLabel)
		if *verbose {
			fmt.Printf("      ev=%t gas=%t pharmacy=%t baby=%t\n", e.Facilities.EV, e.Facilities.Gas, e.Facilities.Pharmacy, e.Facilities.Baby)
			fmt.Printf("      %s\n", e.MapURL)
		}
	}
}

func handleDirection() {
	fs := flag.NewFlagSet("direction", flag.ExitOnError)
	routeFile := fs.String("route", "", "Path to JSON/YAML file with [lng, lat] pairs")

	fs.Parse(os.Args[2:])

	if *routeFile == "" {
		fmt.Println("Example usage:")
		fmt.Println("  test-rest-matcher direction --route route.json")
		os.Exit(1)
	}

	route := loadRoute(*routeFile)
	origin, destination := route.Origin(), route.Destination()
	summary := routing.Summarize(route)

	fmt.Printf("Origin:      (%.6f, %.6f)\n", origin.Latitude, origin.Longitude)
	fmt.Printf("Destination: (%.6f, %.6f)\n", destination.Latitude, destination.Longitude)
	fmt.Printf("Direction:   %s\n", routing.Classify(route))
	fmt.Printf("Length:      %.1f km\n", summary.DistanceKm)
	fmt.Printf("Duration:    %s\n", summary.DurationLabel)
	fmt.Printf("\nNote: direction compares latitudes only; a route that ends due east or west of its origin reads as %s.\n", routing.UpBound)
}

func handleDistance() {
	fs := flag.NewFlagSet("distance", flag.ExitOnError)
	lat1 := fs.Float64("lat1", 0, "Latitude of first point")
	lng1 := fs.Float64("lng1", 0, "Longitude of first point")
	lat2 := fs.Float64("lat2", 0, "Latitude of second point")
	lng2 := fs.Float64("lng2", 0, "Longitude of second point")
	routeFile := fs.String("route", "", "Optional route file; measures the first point against it")

	fs.Parse(os.Args[2:])

	p1, err := geo.NewPoint(*lat1, *lng1)
	if err != nil {
		log.Fatalf("Invalid first point: %v", err)
	}

	if *routeFile != "" {
		route := loadRoute(*routeFile)
		index := routing.DefaultProximityIndex()
		exact := routing.ProximityIndex{ThresholdMeters: index.ThresholdMeters, Mode: routing.Exact}

		fmt.Printf("Point (%.6f, %.6f) against %d-point route:\n", p1.Latitude, p1.Longitude, route.Len())
		fmt.Printf("  Distance to path: %.1f m\n", geo.DistanceToPath(p1, route.Points()))
		fmt.Printf("  Near (sampled, stride %d): %t\n", index.Stride, index.IsNear(p1, route))
		fmt.Printf("  Near (exact): %t\n", exact.IsNear(p1, route))
		return
	}

	p2, err := geo.NewPoint(*lat2, *lng2)
	if err != nil {
		log.Fatalf("Invalid second point: %v", err)
	}

	meters := geo.Distance(p1, p2)
	fmt.Printf("Distance: %.1f m (%.2f km)\n", meters, meters/1000)
}

func handlePolyline() {
	fs := flag.NewFlagSet("polyline", flag.ExitOnError)
	decode := fs.String("decode", "", "Encoded polyline to decode")
	encode := fs.String("encode", "", "Points to encode as \"lat,lng;lat,lng;...\"")
	verbose := fs.Bool("verbose", false, "Show all decoded points")

	fs.Parse(os.Args[2:])

	switch {
	case *decode != "":
		points, err := geo.DecodePolyline(*decode)
		if err != nil {
			log.Fatalf("Error decoding polyline: %v", err)
		}

		fmt.Printf("Polyline decoded successfully:\n")
		fmt.Printf("  Points: %d\n", len(points))
		fmt.Printf("  Start: (%.6f, %.6f)\n", points[0].Latitude, points[0].Longitude)
		fmt.Printf("  End: (%.6f, %.6f)\n", points[len(points)-1].Latitude, points[len(points)-1].Longitude)
		fmt.Printf("  Length: %.1f km\n", geo.PathLength(points)/1000)
		if route, err := routing.NewRoute(points); err == nil {
			fmt.Printf("  Direction: %s\n", routing.Classify(route))
		}
		if *verbose {
			fmt.Printf("  All points:\n")
			for i, p := range points {
				fmt.Printf("    %d: (%.6f, %.6f)\n", i+1, p.Latitude, p.Longitude)
			}
		}

	case *encode != "":
		points, err := parseCoordinatePairs(*encode)
		if err != nil {
			log.Fatalf("Error parsing points: %v", err)
		}
		fmt.Println(geo.EncodePolyline(points))

	default:
		fmt.Println("Example usage:")
		fmt.Println("  test-rest-matcher polyline --decode \"_p~iF~ps|U_ulLnnqC_mqNvxq`@\" --verbose")
		fmt.Println("  test-rest-matcher polyline --encode \"37.4979,127.0276;36.3504,127.3845\"")
		os.Exit(1)
	}
}

// parseCoordinatePairs parses "lat,lng;lat,lng" into validated points.
func parseCoordinatePairs(coordStr string) ([]geo.Point, error) {
	pairs := strings.Split(coordStr, ";")
	points := make([]geo.Point, 0, len(pairs))

	for _, pair := range pairs {
		coords := strings.Split(strings.TrimSpace(pair), ",")
		if len(coords) != 2 {
			return nil, fmt.Errorf("invalid coordinate pair: %s", pair)
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude: %s", coords[0])
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude: %s", coords[1])
		}

		p, err := geo.NewPoint(lat, lng)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	return points, nil
}

func loadRoute(path string) routing.Route {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Error reading route file %s: %v", path, err)
	}

	// JSON is valid YAML, so one decoder covers both formats.
	var pairs [][]float64
	if err := yaml.Unmarshal(data, &pairs); err != nil {
		log.Fatalf("Error parsing route file %s: %v", path, err)
	}

	route, err := routing.RouteFromLngLat(pairs)
	if err != nil {
		log.Fatalf("Invalid route in %s: %v", path, err)
	}
	return route
}

func loadCatalog(path string) []restarea.RawRestArea {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Error opening catalog file %s: %v", path, err)
	}
	defer f.Close()

	catalog, err := restarea.DecodeCatalog(f, restarea.FormatFromPath(path))
	if err != nil {
		log.Fatalf("Error parsing catalog %s: %v", path, err)
	}
	return catalog
}

func printUsage() {
	fmt.Println("test-rest-matcher - Debug tool for rest area matching")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  test-rest-matcher <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  match       Match a catalog against a route and print the timeline")
	fmt.Println("  direction   Classify a route as 상행 or 하행")
	fmt.Println("  distance    Haversine distance between two points, or a point and a route")
	fmt.Println("  polyline    Decode or encode a Google encoded polyline")
	fmt.Println("  help        Show this help message")
	fmt.Println("")
	fmt.Println("Run 'test-rest-matcher <command>' without options for examples.")
}

func printSampleFiles() {
	fmt.Println("Sample route.json ([lng, lat] pairs, origin first):")
	fmt.Println(`[
  [127.0276, 37.4979],
  [127.1139, 36.8151],
  [127.3845, 36.3504]
]`)
	fmt.Println("")
	fmt.Println("Sample rests.yaml:")
	fmt.Println(`- id: 1
  name: 천안삼거리
  lat: 36.8151
  lng: 127.1139
  route_no: 경부선
  direction: 하행
  food: 호두과자
  rating: 4.4
  has_ev: 1
  has_gas: true`)
}
