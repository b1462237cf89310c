package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hyugeso/planner/server/internal/config"
)

func TestPeriodicRefresh_WarmsConfiguredRoutes(t *testing.T) {
	fetcher := &MockFetcher{}
	fetcher.On("FetchRoute", mock.Anything, "서울", "대전").Return(seoulDaejeon(), nil)

	svc := newTestPlanner(fetcher, time.Minute)
	refresher := NewPeriodicRefreshService(svc, &config.ProviderConfig{
		WarmRoutes:   []config.RoutePair{{Start: "서울", End: "대전"}},
		WarmInterval: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresher.StartPeriodicRefresh(ctx)
	refresher.StartPeriodicRefresh(ctx)
	assert.True(t, refresher.IsRunning())

	assert.Eventually(t, func() bool {
		return !svc.cache.IsStale("route:서울|대전")
	}, time.Second, 10*time.Millisecond)

	// A request after warming is served from the cache.
	_, err := svc.Plan(context.Background(), PlanRequest{Start: "서울", End: "대전"})
	assert.NoError(t, err)
	fetcher.AssertNumberOfCalls(t, "FetchRoute", 1)

	refresher.Stop()
	refresher.Stop()
	assert.False(t, refresher.IsRunning())
}

func TestPeriodicRefresh_NoRoutes(t *testing.T) {
	refresher := NewPeriodicRefreshService(newTestPlanner(&MockFetcher{}, time.Minute), &config.ProviderConfig{
		WarmInterval: time.Minute,
	})

	refresher.StartPeriodicRefresh(context.Background())
	assert.False(t, refresher.IsRunning())
}
