package mvtrack

import (
	"context"
	"log"

	"golang.org/x/time/rate"

	"mvtrack/config"
	"mvtrack/storage"
	"mvtrack/tracker"
	"mvtrack/youtube"
)

// FetchVideoStats returns the title, view count and upload date for a
// video, configured entirely from the environment. Failures (including
// a video the API does not return) are logged and reported as zero
// values.
func FetchVideoStats(ctx context.Context, videoID string) (title string, viewCount int64, uploadDate string) {
	m, err := newManager()
	if err != nil {
		log.Printf("mvtrack: %v", err)
		return "", 0, ""
	}
	return m.FetchVideoStats(ctx, videoID)
}

// UpdateVideoStats writes a statistics snapshot into the chart row
// tracking videoID. When no row tracks the video a warning is logged and
// the chart is left untouched; other failures are logged and swallowed
// the same way.
func UpdateVideoStats(ctx context.Context, videoID, title string, viewCount int64, uploadDate string) {
	m, err := newManager()
	if err != nil {
		log.Printf("mvtrack: %v", err)
		return
	}
	m.PersistVideoStats(ctx, videoID, title, viewCount, uploadDate)
}

// UpdateChart refreshes statistics for every song in the chart with a
// linked video and returns the run summary.
func UpdateChart(ctx context.Context) (*tracker.UpdateResult, error) {
	m, err := newManager()
	if err != nil {
		return nil, err
	}
	return m.UpdateAll(ctx)
}

// newManager wires a tracker.Manager from environment configuration.
func newManager() (*tracker.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	source, err := youtube.NewAPISource(cfg.APIKeys...)
	if err != nil {
		return nil, err
	}
	source.RetryConfig = cfg.RetryConfig()

	var provider youtube.StatsProvider = source
	if cfg.CacheTTL > 0 {
		provider = youtube.NewCachedSource(source, cfg.CacheTTL)
	}

	store := storage.NewCSVStore(cfg.CSVPath)
	store.LockTimeout = cfg.LockTimeout

	m := tracker.NewManager(provider, store)
	m.Limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	m.MaxConsecutiveFailures = cfg.MaxConsecutiveFailures
	return m, nil
}
