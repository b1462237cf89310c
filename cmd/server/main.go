package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/dpup/prefab"
	"github.com/dpup/prefab/logging"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/hyugeso/planner/server/internal/cache"
	"github.com/hyugeso/planner/server/internal/clients/routeprovider"
	"github.com/hyugeso/planner/server/internal/config"
	"github.com/hyugeso/planner/server/internal/lib/restarea"
	"github.com/hyugeso/planner/server/internal/services"
)

func main() {
	// Configuration is loaded from prefab.yaml and environment variables with PF__ prefix
	appConfig, err := config.Load(prefab.Config)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	index, err := appConfig.ProximityIndex()
	if err != nil {
		log.Fatalf("Invalid matching configuration: %v", err)
	}

	ctx := logging.EnsureLogger(context.Background())

	cacheInstance := cache.NewCache()
	cacheInstance.StartPeriodicCleanup(ctx, appConfig.Provider.CleanupInterval)

	providerClient := routeprovider.NewClient(appConfig.Provider.BaseURL, appConfig.Provider.Timeout)
	planner := services.NewPlannerService(providerClient, cacheInstance, restarea.NewMatcher(index), appConfig.Provider.CacheTTL)

	log.Printf("Rest area planner starting")
	log.Printf("Route provider: %s (cache ttl %s)", appConfig.Provider.BaseURL, appConfig.Provider.CacheTTL)
	log.Printf("Matching: %s mode, %.0fm threshold, stride %d", index.Mode, index.ThresholdMeters, index.Stride)

	periodicRefresh := services.NewPeriodicRefreshService(planner, &appConfig.Provider)
	periodicRefresh.StartPeriodicRefresh(ctx)
	defer periodicRefresh.Stop()

	server := prefab.New(
		prefab.WithGRPCReflection(),
		prefab.WithHTTPHandlerFunc("/route", planner.RouteHandler),
		prefab.WithHTTPHandlerFunc("/api/v1/plan.kml", planner.KMLHandler),
		prefab.WithHTTPHandlerFunc("/api/v1/plan.geojson", planner.GeoJSONHandler),
		prefab.WithHTTPHandlerFunc("/", homepageHandler),
	)

	healthpb.RegisterHealthServer(server.ServiceRegistrar(), health.NewServer())

	// Start the server (blocks until shutdown)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// homepageHandler serves a plain index of the API at the server root
func homepageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>휴게소 플래너</title>
    <style>
        body { font-family: monospace; padding: 20px; line-height: 1.4; }
        .header { font-weight: bold; }
    </style>
</head>
<body>
<pre>
<span class="header">휴게소 플래너 API</span>

Rest areas along a highway route, filtered by travel direction and
amenities and ordered by distance from the origin.

<span class="header">Endpoints:</span>
  POST /route                    {"start": "서울", "end": "부산", "filters": {"has_ev": true}}
  GET  /api/v1/plan.kml          ?start=서울&amp;end=부산&amp;ev=1
  GET  /api/v1/plan.geojson      ?start=서울&amp;end=부산&amp;best=1&amp;gas=1
  gRPC grpc.health.v1.Health/Check
</pre>
</body>
</html>`

	if _, err := fmt.Fprint(w, html); err != nil {
		slog.Error("Failed to write homepage HTML", "error", err)
	}
}
