package services

import (
	"context"
	"sync"
	"time"

	"github.com/dpup/prefab/logging"

	"github.com/hyugeso/planner/server/internal/config"
)

const warmRequestTimeout = 2 * time.Minute

// PeriodicRefreshService re-plans the configured popular routes on an
// interval so their provider responses stay in the cache.
type PeriodicRefreshService struct {
	planner  *PlannerService
	routes   []config.RoutePair
	interval time.Duration

	mu       sync.Mutex
	stopChan chan struct{}
	running  bool
}

// NewPeriodicRefreshService creates a new periodic refresh service
func NewPeriodicRefreshService(planner *PlannerService, cfg *config.ProviderConfig) *PeriodicRefreshService {
	return &PeriodicRefreshService{
		planner:  planner,
		routes:   cfg.WarmRoutes,
		interval: cfg.WarmInterval,
	}
}

// StartPeriodicRefresh starts the refresh loop. It is a no-op when no routes
// are configured or the loop is already running.
func (p *PeriodicRefreshService) StartPeriodicRefresh(ctx context.Context) {
	ctx = logging.EnsureLogger(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running || len(p.routes) == 0 || p.interval <= 0 {
		return
	}
	p.running = true
	p.stopChan = make(chan struct{})

	logging.Infow(ctx, "Periodic refresh: starting", "routes", len(p.routes), "interval", p.interval.String())
	go p.refreshLoop(ctx, p.stopChan)
}

// Stop stops the refresh loop.
func (p *PeriodicRefreshService) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.running = false
	close(p.stopChan)
}

// IsRunning returns whether periodic refresh is active
func (p *PeriodicRefreshService) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *PeriodicRefreshService) refreshLoop(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.refreshAll(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Infow(ctx, "Periodic refresh: stopping due to context cancellation")
			return
		case <-stop:
			return
		case <-ticker.C:
			p.refreshAll(ctx)
		}
	}
}

// refreshAll plans every configured route once. Plan only calls the provider
// when the cached response is stale, so fresh routes cost nothing.
func (p *PeriodicRefreshService) refreshAll(ctx context.Context) {
	for _, r := range p.routes {
		refreshCtx, cancel := context.WithTimeout(ctx, warmRequestTimeout)
		_, err := p.planner.Plan(refreshCtx, PlanRequest{Start: r.Start, End: r.End})
		cancel()

		if err != nil {
			logging.Warnw(ctx, "Periodic refresh: route failed", "start", r.Start, "end", r.End, "error", err)
		}
	}
}
