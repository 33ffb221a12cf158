// Package tracker orchestrates chart updates: it fetches video statistics
// and writes them back into the chart, one song or the whole file at a
// time.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"mvtrack/storage"
	"mvtrack/youtube"
)

const (
	defaultRequestsPerSecond      = 2
	defaultMaxConsecutiveFailures = 3
)

// Manager orchestrates statistics updates for the tracked chart.
// It fetches from a StatsProvider, persists through a ChartStore, and
// optionally records each full run in a history store.
type Manager struct {
	source  youtube.StatsProvider
	store   storage.ChartStore
	history *storage.HistoryStore

	// Limiter throttles API requests during UpdateAll. Nil disables
	// throttling.
	Limiter *rate.Limiter

	// MaxConsecutiveFailures aborts UpdateAll after this many failed
	// batch requests in a row.
	MaxConsecutiveFailures int

	// OnProgress, when set, receives one event per song during UpdateAll.
	OnProgress func(Progress)
}

// NewManager creates a manager with default rate limiting.
func NewManager(source youtube.StatsProvider, store storage.ChartStore) *Manager {
	return &Manager{
		source:                 source,
		store:                  store,
		Limiter:                rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
		MaxConsecutiveFailures: defaultMaxConsecutiveFailures,
	}
}

// NewManagerWithHistory creates a manager that additionally records each
// UpdateAll run in the given history store.
func NewManagerWithHistory(source youtube.StatsProvider, store storage.ChartStore, history *storage.HistoryStore) *Manager {
	m := NewManager(source, store)
	m.history = history
	return m
}

// Progress reports one song's outcome during UpdateAll.
type Progress struct {
	// Processed counts songs handled so far, including this one.
	Processed int
	// Total is the number of songs with a linked video.
	Total int
	// Song is the chart row this event concerns.
	Song storage.Song
	// Err is nil when the song's row was updated.
	Err error
}

// UpdateResult summarizes one pass over the chart.
type UpdateResult struct {
	// Total is the number of songs with a linked video.
	Total int
	// Updated is the number of rows written with fresh statistics.
	Updated int
	// Skipped counts videos the API no longer returns.
	Skipped int
	// Failed counts fetch and write failures.
	Failed int
	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time
}

// FetchVideoStats returns the title, view count and upload date for a
// video. Failures are logged and reported as zero values, so a scripted
// pass over many songs never stops on one bad video.
func (m *Manager) FetchVideoStats(ctx context.Context, videoID string) (title string, viewCount int64, uploadDate string) {
	stats, err := m.source.VideoStats(ctx, videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrVideoNotFound) {
			log.Printf("tracker: video %s not found", videoID)
		} else {
			log.Printf("tracker: fetch stats for %s: %v", videoID, err)
		}
		return "", 0, ""
	}
	return stats.Title, stats.ViewCount, stats.UploadDate
}

// PersistVideoStats writes a statistics snapshot into the chart row
// tracking videoID. When no row tracks the video a warning is logged and
// the file is left untouched; other failures are logged and swallowed
// the same way. The title is only used for log context.
func (m *Manager) PersistVideoStats(ctx context.Context, videoID, title string, viewCount int64, uploadDate string) {
	_, err := m.store.UpdateVideoStats(ctx, videoID, viewCount, uploadDate)
	if err == nil {
		return
	}
	if errors.Is(err, storage.ErrNotFound) {
		log.Printf("tracker: warning: no song tracks video %s (%s)", videoID, title)
		return
	}
	log.Printf("tracker: persist stats for %s: %v", videoID, err)
}

// UpdateVideo fetches current statistics for one video and writes them
// into its chart row. Unlike the Fetch/Persist pair it reports errors to
// the caller.
func (m *Manager) UpdateVideo(ctx context.Context, videoID string) (*storage.Song, error) {
	stats, err := m.source.VideoStats(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}

	song, err := m.store.UpdateVideoStats(ctx, videoID, stats.ViewCount, stats.UploadDate)
	if err != nil {
		return nil, fmt.Errorf("update chart: %w", err)
	}
	return song, nil
}

// UpdateAll refreshes statistics for every song with a linked video.
// Videos are fetched in batches to stay inside API quota, throttled by
// the manager's limiter. The pass aborts early when the API quota is
// exhausted or MaxConsecutiveFailures batches fail in a row; rows already
// written stay written.
func (m *Manager) UpdateAll(ctx context.Context) (*UpdateResult, error) {
	songs, err := m.store.Songs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chart: %w", err)
	}

	var tracked []storage.Song
	for _, s := range songs {
		if s.HasVideo() {
			tracked = append(tracked, s)
		}
	}

	result := &UpdateResult{Total: len(tracked), StartedAt: time.Now()}
	defer func() {
		result.FinishedAt = time.Now()
		m.recordRun(ctx, result)
	}()

	consecutive := 0
	processed := 0

	for start := 0; start < len(tracked); start += youtube.MaxBatchIDs {
		end := start + youtube.MaxBatchIDs
		if end > len(tracked) {
			end = len(tracked)
		}
		chunk := tracked[start:end]

		if m.Limiter != nil {
			if err := m.Limiter.Wait(ctx); err != nil {
				return result, err
			}
		}

		ids := make([]string, len(chunk))
		for i, s := range chunk {
			ids[i] = s.YouTubeID
		}

		statsByID, err := m.source.BatchVideoStats(ctx, ids)
		if err != nil {
			consecutive++
			log.Printf("tracker: batch fetch failed: %v", err)
			for _, s := range chunk {
				processed++
				result.Failed++
				m.report(Progress{Processed: processed, Total: result.Total, Song: s, Err: err})
			}
			if errors.Is(err, youtube.ErrQuotaExceeded) {
				return result, fmt.Errorf("quota exhausted after %d of %d songs: %w", processed, result.Total, err)
			}
			if consecutive >= m.MaxConsecutiveFailures {
				return result, fmt.Errorf("aborting after %d consecutive batch failures: %w", consecutive, err)
			}
			continue
		}
		consecutive = 0

		for _, s := range chunk {
			processed++

			stats, ok := statsByID[s.YouTubeID]
			if !ok {
				result.Skipped++
				log.Printf("tracker: video %s not found, skipping %q", s.YouTubeID, s.Title)
				m.report(Progress{Processed: processed, Total: result.Total, Song: s, Err: youtube.ErrVideoNotFound})
				continue
			}

			updated, err := m.store.UpdateVideoStats(ctx, s.YouTubeID, stats.ViewCount, stats.UploadDate)
			if err != nil {
				result.Failed++
				log.Printf("tracker: update %q: %v", s.Title, err)
				m.report(Progress{Processed: processed, Total: result.Total, Song: s, Err: err})
				continue
			}

			result.Updated++
			m.report(Progress{Processed: processed, Total: result.Total, Song: *updated})
		}
	}

	return result, nil
}

func (m *Manager) report(p Progress) {
	if m.OnProgress != nil {
		m.OnProgress(p)
	}
}

// recordRun persists the run outcome to the history store, when one is
// configured. History failures never fail the update itself.
func (m *Manager) recordRun(ctx context.Context, result *UpdateResult) {
	if m.history == nil {
		return
	}

	run := &storage.UpdateRun{
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Updated:    result.Updated,
		Skipped:    result.Skipped,
		Failed:     result.Failed,
	}
	if err := m.history.RecordRun(ctx, run); err != nil {
		log.Printf("tracker: failed to record run history: %v", err)
	}
}
