package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"
)

// Cache is a thread-safe in-memory store of JSON-serialized values with a
// per-entry TTL. Entries past their TTL are "stale": Get ignores them, but
// GetStale still returns them until they are twice their TTL old.
type Cache struct {
	entries map[string]*Entry
	mutex   sync.RWMutex
	now     func() time.Time
}

// Entry is a cached value with its bookkeeping.
type Entry struct {
	Key       string        `json:"key"`
	Data      []byte        `json:"data"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
	TTL       time.Duration `json:"ttl"`
	Source    string        `json:"source"`
}

// Stats summarizes the cache contents.
type Stats struct {
	TotalEntries int       `json:"total_entries"`
	FreshEntries int       `json:"fresh_entries"`
	StaleEntries int       `json:"stale_entries"`
	OldestEntry  time.Time `json:"oldest_entry"`
	NewestEntry  time.Time `json:"newest_entry"`
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// RouteKey builds the cache key for a provider lookup. Place names are
// trimmed so that "서울 " and "서울" share an entry.
func RouteKey(start, end string) string {
	return fmt.Sprintf("route:%s|%s", strings.TrimSpace(start), strings.TrimSpace(end))
}

// Set stores data under key for ttl.
func (c *Cache) Set(key string, data any, ttl time.Duration, source string) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data for cache: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	c.entries[key] = &Entry{
		Key:       key,
		Data:      jsonData,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		TTL:       ttl,
		Source:    source,
	}
	return nil
}

// Get decodes the entry into result if it exists and is fresh.
func (c *Cache) Get(key string, result any) (bool, error) {
	entry, ok := c.lookup(key)
	if !ok || c.now().After(entry.ExpiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(entry.Data, result); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return true, nil
}

// GetStale decodes the entry into result as long as it is not very stale,
// for use as a fallback when the upstream is failing.
func (c *Cache) GetStale(key string, result any) (*Entry, bool, error) {
	entry, ok := c.lookup(key)
	if !ok || c.isVeryStale(entry) {
		return nil, false, nil
	}
	if err := json.Unmarshal(entry.Data, result); err != nil {
		return entry, false, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return entry, true, nil
}

// IsStale reports whether key is missing or past its TTL.
func (c *Cache) IsStale(key string) bool {
	entry, ok := c.lookup(key)
	return !ok || c.now().After(entry.ExpiresAt)
}

// IsVeryStale reports whether key is missing or older than twice its TTL.
func (c *Cache) IsVeryStale(key string) bool {
	entry, ok := c.lookup(key)
	return !ok || c.isVeryStale(entry)
}

func (c *Cache) isVeryStale(entry *Entry) bool {
	return c.now().After(entry.CreatedAt.Add(entry.TTL * 2))
}

func (c *Cache) lookup(key string) (*Entry, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[key]
	return entry, ok
}

// Delete removes an entry.
func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*Entry)
}

// Keys returns all keys in sorted order.
func (c *Cache) Keys() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := c.now()
	stats := Stats{TotalEntries: len(c.entries)}

	for _, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			stats.StaleEntries++
		} else {
			stats.FreshEntries++
		}

		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.CreatedAt
		}
	}

	return stats
}

// CleanupStale removes entries that are too old to serve even as a fallback
// and returns how many were removed.
func (c *Cache) CleanupStale() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var removed int
	for key, entry := range c.entries {
		if c.isVeryStale(entry) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// StartPeriodicCleanup runs CleanupStale every interval until ctx is done.
// A non-positive interval disables cleanup.
func (c *Cache) StartPeriodicCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ctx = logging.EnsureLogger(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				err, _ := errors.ParseStack(debug.Stack())
				skipFrames := 3
				numFrames := 5
				logging.Errorw(ctx, "Cache cleanup: recovered from panic",
					"error", r, "error.stack_trace", err.MinimalStack(skipFrames, numFrames))
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := c.CleanupStale(); removed > 0 {
					logging.Infow(ctx, "Cache cleanup: removed stale entries", "removed", removed)
				}
			}
		}
	}()
}
