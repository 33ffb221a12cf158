package youtube

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a cached statistics snapshot stays fresh.
const DefaultCacheTTL = 1 * time.Hour

// CachedSource wraps a StatsProvider with an in-memory TTL cache keyed by
// video ID. Repeated fetches inside the TTL window cost no quota. Failed
// lookups are not cached.
type CachedSource struct {
	inner StatsProvider
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]*VideoStats
}

// NewCachedSource wraps inner with a TTL cache. A non-positive ttl falls
// back to DefaultCacheTTL.
func NewCachedSource(inner StatsProvider, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSource{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]*VideoStats),
	}
}

// VideoStats returns the cached snapshot when fresh, otherwise fetches
// through the inner provider and caches the result.
func (c *CachedSource) VideoStats(ctx context.Context, videoID string) (*VideoStats, error) {
	if stats := c.lookup(videoID); stats != nil {
		return stats, nil
	}

	stats, err := c.inner.VideoStats(ctx, videoID)
	if err != nil {
		return nil, err
	}

	c.store(stats)
	copied := *stats
	return &copied, nil
}

// BatchVideoStats serves fresh entries from the cache and fetches only the
// missing IDs from the inner provider.
func (c *CachedSource) BatchVideoStats(ctx context.Context, videoIDs []string) (map[string]*VideoStats, error) {
	results := make(map[string]*VideoStats, len(videoIDs))
	var misses []string

	for _, id := range videoIDs {
		if stats := c.lookup(id); stats != nil {
			results[id] = stats
		} else {
			misses = append(misses, id)
		}
	}

	if len(misses) == 0 {
		return results, nil
	}

	fetched, err := c.inner.BatchVideoStats(ctx, misses)
	if err != nil {
		return nil, err
	}
	for id, stats := range fetched {
		c.store(stats)
		copied := *stats
		results[id] = &copied
	}

	return results, nil
}

// Invalidate drops the cached snapshot for a video ID.
func (c *CachedSource) Invalidate(videoID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, videoID)
}

// lookup returns a copy of the cached snapshot if it is still fresh.
func (c *CachedSource) lookup(videoID string) *VideoStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats, ok := c.entries[videoID]
	if !ok || time.Since(stats.FetchedAt) > c.ttl {
		return nil
	}
	copied := *stats
	return &copied
}

// store caches a copy of the snapshot.
func (c *CachedSource) store(stats *VideoStats) {
	if stats == nil {
		return
	}
	copied := *stats
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[stats.VideoID] = &copied
}
