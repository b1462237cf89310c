package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dpup/prefab/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hyugeso/planner/server/internal/cache"
	"github.com/hyugeso/planner/server/internal/clients/routeprovider"
	"github.com/hyugeso/planner/server/internal/lib/restarea"
	"github.com/hyugeso/planner/server/internal/lib/routing"
)

// RouteFetcher is implemented by routeprovider.Client.
type RouteFetcher interface {
	FetchRoute(ctx context.Context, start, end string) (*routeprovider.RouteData, error)
}

// PlannerService turns a start/end pair into a ranked list of rest areas
// along the provider's route.
type PlannerService struct {
	fetcher  RouteFetcher
	cache    *cache.Cache
	matcher  *restarea.Matcher
	cacheTTL time.Duration
}

// PlanRequest is the body of POST /route.
type PlanRequest struct {
	Start   string                  `json:"start"`
	End     string                  `json:"end"`
	Filters restarea.FilterCriteria `json:"filters"`
}

// Plan is the result of one planning run.
type Plan struct {
	// Route is the validated route used for matching; exports draw from it.
	Route routing.Route `json:"-"`

	Path        [][]float64              `json:"route"`
	Rests       json.RawMessage          `json:"rests"`
	Direction   routing.Direction        `json:"direction"`
	Summary     routing.Summary          `json:"summary"`
	Timeline    []restarea.TimelineEntry `json:"timeline"`
	Stats       restarea.MatchStats      `json:"stats"`
	Skipped     int                      `json:"skipped"`
	LastUpdated time.Time                `json:"last_updated"`
	Stale       bool                     `json:"stale,omitempty"`
}

// fetchedRoute is a provider response that passed validation.
type fetchedRoute struct {
	data    *routeprovider.RouteData
	route   routing.Route
	catalog []restarea.RawRestArea
	at      time.Time
	stale   bool
}

// NewPlannerService creates a new PlannerService. A zero cacheTTL disables
// provider response caching.
func NewPlannerService(fetcher RouteFetcher, cache *cache.Cache, matcher *restarea.Matcher, cacheTTL time.Duration) *PlannerService {
	return &PlannerService{
		fetcher:  fetcher,
		cache:    cache,
		matcher:  matcher,
		cacheTTL: cacheTTL,
	}
}

// Plan fetches (or reuses) the provider route for the request and runs the
// matcher over the catalog that came with it. Errors carry gRPC status codes.
func (s *PlannerService) Plan(ctx context.Context, req PlanRequest) (*Plan, error) {
	ctx = logging.EnsureLogger(ctx)

	start := strings.TrimSpace(req.Start)
	end := strings.TrimSpace(req.End)
	if start == "" || end == "" {
		return nil, status.Error(codes.InvalidArgument, "start and end are required")
	}

	fetched, err := s.fetchRoute(ctx, start, end)
	if err != nil {
		return nil, err
	}
	route := fetched.route

	areas, report := restarea.Ingest(fetched.catalog)
	for _, p := range report.Problems {
		logging.Warnw(ctx, "Planner: skipped rest area record",
			"index", p.Index, "id", p.ID, "reason", p.Reason)
	}

	direction := routing.Classify(route)
	matched, stats := s.matcher.MatchWithStats(areas, route, req.Filters)
	entries := restarea.BuildEntries(restarea.BuildTimeline(matched, route))

	logging.Infow(ctx, "Planner: plan built",
		"start", start, "end", end,
		"direction", string(direction),
		"catalog", len(areas), "skipped", report.Skipped, "matched", len(entries),
		"stale", fetched.stale)

	return &Plan{
		Route:       route,
		Path:        fetched.data.Raw,
		Rests:       fetched.data.Rests,
		Direction:   direction,
		Summary:     routing.Summarize(route),
		Timeline:    entries,
		Stats:       stats,
		Skipped:     report.Skipped,
		LastUpdated: fetched.at,
		Stale:       fetched.stale,
	}, nil
}

// fetchRoute returns a validated provider response, preferring a fresh cache
// entry and falling back to a stale one when the provider fails or sends an
// unusable route. Only validated responses are cached.
func (s *PlannerService) fetchRoute(ctx context.Context, start, end string) (*fetchedRoute, error) {
	key := cache.RouteKey(start, end)

	if s.cacheTTL > 0 && !s.cache.IsStale(key) {
		if fetched, ok := s.cachedRoute(ctx, key); ok {
			return fetched, nil
		}
	}

	data, err := s.fetcher.FetchRoute(ctx, start, end)
	if errors.Is(err, routeprovider.ErrProvider) {
		return nil, status.Error(codes.NotFound, err.Error())
	}

	var fetched *fetchedRoute
	if err == nil {
		fetched, err = validateRoute(data)
	}
	if err != nil {
		if s.cacheTTL > 0 {
			if stale, ok := s.cachedRoute(ctx, key); ok {
				logging.Warnw(ctx, "Planner: provider failed, serving stale route",
					"key", key, "age", time.Since(stale.at).String(), "error", err)
				stale.stale = true
				return stale, nil
			}
		}

		logging.Errorw(ctx, "Planner: provider request failed", "start", start, "end", end, "error", err)
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	fetched.at = time.Now()
	if s.cacheTTL > 0 {
		if err := s.cache.Set(key, data, s.cacheTTL, "routeprovider"); err != nil {
			logging.Warnw(ctx, "Planner: failed to cache route", "key", key, "error", err)
		}
	}
	return fetched, nil
}

// cachedRoute reads key regardless of freshness, as long as it is not very
// stale.
func (s *PlannerService) cachedRoute(ctx context.Context, key string) (*fetchedRoute, bool) {
	var cached routeprovider.RouteData
	entry, found, err := s.cache.GetStale(key, &cached)
	if err != nil {
		logging.Warnw(ctx, "Planner: cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	fetched, err := validateRoute(&cached)
	if err != nil {
		logging.Warnw(ctx, "Planner: dropping unusable cached route", "key", key, "error", err)
		s.cache.Delete(key)
		return nil, false
	}
	fetched.at = entry.CreatedAt
	return fetched, true
}

// validateRoute checks a provider response before it is used or cached.
func validateRoute(data *routeprovider.RouteData) (*fetchedRoute, error) {
	if data == nil {
		return nil, routeprovider.ErrEmptyRoute
	}
	route, err := routing.NewRoute(data.Points)
	if err != nil {
		return nil, fmt.Errorf("provider returned an unusable route: %w", err)
	}
	catalog, err := data.Catalog()
	if err != nil {
		return nil, fmt.Errorf("provider returned an unusable catalog: %w", err)
	}
	return &fetchedRoute{data: data, route: route, catalog: catalog}, nil
}
