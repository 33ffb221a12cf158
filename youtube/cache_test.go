package youtube

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// mockStatsProvider is a mock implementation for testing caching behavior.
type mockStatsProvider struct {
	mu    sync.Mutex
	stats map[string]*VideoStats
	err   error
	calls int
}

func (m *mockStatsProvider) VideoStats(ctx context.Context, videoID string) (*VideoStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	stats, ok := m.stats[videoID]
	if !ok {
		return nil, &StatsError{Source: "mock", VideoID: videoID, Err: ErrVideoNotFound}
	}
	copied := *stats
	copied.FetchedAt = time.Now()
	return &copied, nil
}

func (m *mockStatsProvider) BatchVideoStats(ctx context.Context, videoIDs []string) (map[string]*VideoStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	results := make(map[string]*VideoStats)
	for _, id := range videoIDs {
		if stats, ok := m.stats[id]; ok {
			copied := *stats
			copied.FetchedAt = time.Now()
			results[id] = &copied
		}
	}
	return results, nil
}

func (m *mockStatsProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newMockProvider() *mockStatsProvider {
	return &mockStatsProvider{
		stats: map[string]*VideoStats{
			"dQw4w9WgXcQ": {VideoID: "dQw4w9WgXcQ", Title: "Video 1", ViewCount: 1000000, UploadDate: "2009-10-25"},
			"xQw4w9WgXcZ": {VideoID: "xQw4w9WgXcZ", Title: "Video 2", ViewCount: 500000, UploadDate: "2020-01-02"},
		},
	}
}

func TestCachedSource_Hit(t *testing.T) {
	inner := newMockProvider()
	cache := NewCachedSource(inner, 1*time.Hour)
	ctx := context.Background()

	first, err := cache.VideoStats(ctx, "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("VideoStats() error = %v", err)
	}

	second, err := cache.VideoStats(ctx, "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("VideoStats() second call error = %v", err)
	}

	if inner.callCount() != 1 {
		t.Errorf("inner provider called %d times, want 1", inner.callCount())
	}
	if first.ViewCount != second.ViewCount {
		t.Errorf("cached views = %d, want %d", second.ViewCount, first.ViewCount)
	}
}

func TestCachedSource_Expiry(t *testing.T) {
	inner := newMockProvider()
	cache := NewCachedSource(inner, 1*time.Hour)
	ctx := context.Background()

	if _, err := cache.VideoStats(ctx, "dQw4w9WgXcQ"); err != nil {
		t.Fatalf("VideoStats() error = %v", err)
	}

	// Age the cached entry past the TTL.
	cache.mu.Lock()
	cache.entries["dQw4w9WgXcQ"].FetchedAt = time.Now().Add(-2 * time.Hour)
	cache.mu.Unlock()

	if _, err := cache.VideoStats(ctx, "dQw4w9WgXcQ"); err != nil {
		t.Fatalf("VideoStats() after expiry error = %v", err)
	}

	if inner.callCount() != 2 {
		t.Errorf("inner provider called %d times, want 2 after expiry", inner.callCount())
	}
}

func TestCachedSource_ErrorNotCached(t *testing.T) {
	inner := newMockProvider()
	cache := NewCachedSource(inner, 1*time.Hour)
	ctx := context.Background()

	if _, err := cache.VideoStats(ctx, "unknown0000"); err == nil {
		t.Fatal("VideoStats() for unknown ID should fail")
	}

	_, err := cache.VideoStats(ctx, "unknown0000")
	if !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("VideoStats() error = %v, want ErrVideoNotFound", err)
	}

	if inner.callCount() != 2 {
		t.Errorf("inner provider called %d times, want 2 (failures must not be cached)", inner.callCount())
	}
}

func TestCachedSource_BatchPartialHit(t *testing.T) {
	inner := newMockProvider()
	cache := NewCachedSource(inner, 1*time.Hour)
	ctx := context.Background()

	// Warm the cache with one of the two videos.
	if _, err := cache.VideoStats(ctx, "dQw4w9WgXcQ"); err != nil {
		t.Fatalf("VideoStats() error = %v", err)
	}

	results, err := cache.BatchVideoStats(ctx, []string{"dQw4w9WgXcQ", "xQw4w9WgXcZ"})
	if err != nil {
		t.Fatalf("BatchVideoStats() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("BatchVideoStats() returned %d results, want 2", len(results))
	}
	// One call to warm, one batch call for the single miss.
	if inner.callCount() != 2 {
		t.Errorf("inner provider called %d times, want 2", inner.callCount())
	}
}

func TestCachedSource_AllHitsSkipInner(t *testing.T) {
	inner := newMockProvider()
	cache := NewCachedSource(inner, 1*time.Hour)
	ctx := context.Background()

	ids := []string{"dQw4w9WgXcQ", "xQw4w9WgXcZ"}
	if _, err := cache.BatchVideoStats(ctx, ids); err != nil {
		t.Fatalf("BatchVideoStats() error = %v", err)
	}
	if _, err := cache.BatchVideoStats(ctx, ids); err != nil {
		t.Fatalf("BatchVideoStats() second call error = %v", err)
	}

	if inner.callCount() != 1 {
		t.Errorf("inner provider called %d times, want 1 when all IDs are cached", inner.callCount())
	}
}

func TestCachedSource_Invalidate(t *testing.T) {
	inner := newMockProvider()
	cache := NewCachedSource(inner, 1*time.Hour)
	ctx := context.Background()

	if _, err := cache.VideoStats(ctx, "dQw4w9WgXcQ"); err != nil {
		t.Fatalf("VideoStats() error = %v", err)
	}

	cache.Invalidate("dQw4w9WgXcQ")

	if _, err := cache.VideoStats(ctx, "dQw4w9WgXcQ"); err != nil {
		t.Fatalf("VideoStats() after invalidate error = %v", err)
	}
	if inner.callCount() != 2 {
		t.Errorf("inner provider called %d times, want 2 after Invalidate", inner.callCount())
	}
}

func TestNewCachedSource_DefaultTTL(t *testing.T) {
	cache := NewCachedSource(newMockProvider(), 0)
	if cache.ttl != DefaultCacheTTL {
		t.Errorf("ttl = %v, want %v", cache.ttl, DefaultCacheTTL)
	}
}
