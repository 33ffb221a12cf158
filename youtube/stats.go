// Package youtube provides video statistics retrieval from YouTube.
package youtube

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for statistics retrieval operations.
var (
	ErrVideoNotFound  = errors.New("youtube: video not found")
	ErrQuotaExceeded  = errors.New("youtube: api quota exceeded")
	ErrRateLimited    = errors.New("youtube: rate limited")
	ErrNetworkTimeout = errors.New("youtube: network timeout")
	ErrAPIKeyMissing  = errors.New("youtube: api key missing")
)

// StatsProvider defines the interface for fetching per-video statistics.
// Different implementations may add caching or alternate transports on top
// of the Data API.
type StatsProvider interface {
	// VideoStats fetches statistics for a single video ID.
	// It returns ErrVideoNotFound (wrapped) if the video does not exist.
	VideoStats(ctx context.Context, videoID string) (*VideoStats, error)

	// BatchVideoStats fetches statistics for multiple video IDs in as few
	// calls as possible. IDs the platform does not know are simply absent
	// from the result map; only transport-level failures return an error.
	BatchVideoStats(ctx context.Context, videoIDs []string) (map[string]*VideoStats, error)
}

// VideoStats contains the statistics snapshot for a single video.
type VideoStats struct {
	// VideoID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	VideoID string `json:"video_id"`

	// Title is the video title.
	Title string `json:"title"`

	// ViewCount is the total number of views. Never negative.
	ViewCount int64 `json:"view_count"`

	// UploadDate is the calendar date the video was published,
	// formatted YYYY-MM-DD (the date portion of the API timestamp).
	UploadDate string `json:"upload_date"`

	// FetchedAt is when this snapshot was retrieved.
	FetchedAt time.Time `json:"fetched_at"`
}

// VideoURL returns the full YouTube URL for this video.
func (v VideoStats) VideoURL() string {
	return "https://www.youtube.com/watch?v=" + v.VideoID
}

// UploadTime parses UploadDate into a time.Time. The zero time is
// returned when the date is empty or malformed.
func (v VideoStats) UploadTime() time.Time {
	t, err := time.Parse("2006-01-02", v.UploadDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// StatsError wraps statistics retrieval errors with context about what failed.
// Use errors.As() to extract this error type and get operation details:
//
//	var statsErr *youtube.StatsError
//	if errors.As(err, &statsErr) {
//		fmt.Printf("Failed to fetch %s: %v\n", statsErr.VideoID, statsErr.Err)
//	}
type StatsError struct {
	// Source indicates which provider produced the error ("api", "cache").
	Source string
	// VideoID is the video that was being fetched. Empty for batch failures.
	VideoID string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the stats error.
func (e *StatsError) Error() string {
	if e.VideoID == "" {
		return "youtube: " + e.Source + " stats: " + e.Err.Error()
	}
	return "youtube: " + e.Source + " stats for " + e.VideoID + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StatsError) Unwrap() error { return e.Err }
