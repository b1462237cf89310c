package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache() (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)}
	c := NewCache()
	c.now = clock.Now
	return c, clock
}

type cachedRoute struct {
	Route [][]float64 `json:"route"`
	Count int         `json:"count"`
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache()

	in := cachedRoute{Route: [][]float64{{127.0, 37.5}, {127.5, 36.0}}, Count: 2}
	require.NoError(t, c.Set("k", in, time.Minute, "provider"))

	var out cachedRoute
	found, err := c.Get("k", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	found, err = c.Get("missing", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_SetUnmarshalable(t *testing.T) {
	c, _ := newTestCache()

	err := c.Set("k", make(chan int), time.Minute, "test")
	assert.Error(t, err)
	assert.Empty(t, c.Keys())
}

func TestCache_Staleness(t *testing.T) {
	c, clock := newTestCache()
	require.NoError(t, c.Set("k", 42, 10*time.Minute, "test"))

	assert.False(t, c.IsStale("k"))
	assert.False(t, c.IsVeryStale("k"))

	clock.Advance(11 * time.Minute)

	var v int
	found, err := c.Get("k", &v)
	require.NoError(t, err)
	assert.False(t, found, "stale entries are not served by Get")
	assert.True(t, c.IsStale("k"))
	assert.False(t, c.IsVeryStale("k"))

	entry, found, err := c.GetStale("k", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, v)
	assert.Equal(t, "test", entry.Source)

	clock.Advance(10 * time.Minute)
	assert.True(t, c.IsVeryStale("k"))

	_, found, err = c.GetStale("k", &v)
	require.NoError(t, err)
	assert.False(t, found)

	assert.True(t, c.IsStale("missing"))
	assert.True(t, c.IsVeryStale("missing"))
}

func TestCache_GetTypeMismatch(t *testing.T) {
	c, _ := newTestCache()
	require.NoError(t, c.Set("k", "text", time.Minute, "test"))

	var n int
	found, err := c.Get("k", &n)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestCache_DeleteClearKeys(t *testing.T) {
	c, _ := newTestCache()
	require.NoError(t, c.Set("b", 1, time.Minute, "test"))
	require.NoError(t, c.Set("a", 2, time.Minute, "test"))
	require.NoError(t, c.Set("c", 3, time.Minute, "test"))

	assert.Equal(t, []string{"a", "b", "c"}, c.Keys())

	c.Delete("b")
	assert.Equal(t, []string{"a", "c"}, c.Keys())

	c.Clear()
	assert.Empty(t, c.Keys())
}

func TestCache_StatsAndCleanup(t *testing.T) {
	c, clock := newTestCache()
	start := clock.Now()

	require.NoError(t, c.Set("old", 1, time.Minute, "test"))
	clock.Advance(90 * time.Second)
	require.NoError(t, c.Set("new", 2, time.Hour, "test"))

	stats := c.Stats()
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 1, stats.FreshEntries)
	assert.Equal(t, 1, stats.StaleEntries)
	assert.Equal(t, start, stats.OldestEntry)
	assert.Equal(t, start.Add(90*time.Second), stats.NewestEntry)

	assert.Equal(t, 0, c.CleanupStale(), "stale but not very stale entries are kept")

	clock.Advance(time.Minute)
	assert.Equal(t, 1, c.CleanupStale())
	assert.Equal(t, []string{"new"}, c.Keys())
}

func TestCache_PeriodicCleanupStops(t *testing.T) {
	c := NewCache()
	require.NoError(t, c.Set("k", 1, time.Millisecond, "test"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.StartPeriodicCleanup(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		return len(c.Keys()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c, _ := newTestCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			for j := 0; j < 100; j++ {
				_ = c.Set(key, j, time.Minute, "test")
				var v int
				_, _ = c.Get(key, &v)
				_ = c.Stats()
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, c.Keys(), 4)
}

func TestRouteKey(t *testing.T) {
	assert.Equal(t, "route:서울|대전", RouteKey(" 서울", "대전 "))
	assert.NotEqual(t, RouteKey("서울", "대전"), RouteKey("대전", "서울"))
}
