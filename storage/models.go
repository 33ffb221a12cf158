package storage

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names the chart CSV must carry for statistics updates.
// The file's schema is owned externally; these are looked up by header
// name after whitespace stripping, never by position.
const (
	ColYouTubeID    = "youtube_id"
	ColYouTubeViews = "youtube_views"
	ColYouTubeDate  = "youtube_date"
	ColViewsPerDay  = "view per day"
)

// Optional columns used by reporting. Rows missing them parse to zero values.
const (
	ColTitle = "Title"
	ColYear  = "Year"
	ColTotal = "Total"
)

// Song is one row of the tracked chart. Beyond the fields surfaced here
// the CSV may carry arbitrary extra columns; those pass through loads and
// saves untouched.
type Song struct {
	// Row is the zero-based data row index within the file.
	Row int `json:"row"`
	// Title is the song title.
	Title string `json:"title"`
	// Year is the chart year the song was voted into.
	Year int `json:"year"`
	// TotalVotes is the number of chart votes the song received.
	TotalVotes int64 `json:"total_votes"`
	// YouTubeID is the video ID the song is tracked against. Empty when
	// no video has been linked yet.
	YouTubeID string `json:"youtube_id"`
	// YouTubeViews is the last persisted view count.
	YouTubeViews int64 `json:"youtube_views"`
	// YouTubeDate is the video upload date, YYYY-MM-DD.
	YouTubeDate string `json:"youtube_date"`
	// ViewsPerDay is the derived views-per-day metric.
	ViewsPerDay int64 `json:"views_per_day"`
}

// HasVideo reports whether a video ID has been linked to this song.
func (s Song) HasVideo() bool {
	return s.YouTubeID != ""
}

// UpdateRun records one pass over the chart: when it ran and how many
// songs were updated, skipped, or failed.
type UpdateRun struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}

// ViewsPerDay computes the derived metric: view count divided by whole
// days elapsed between upload and now, rounded. When no whole day has
// elapsed (or the upload date lies in the future) the raw view count is
// returned so the metric never divides by zero.
func ViewsPerDay(viewCount int64, uploadDate, now time.Time) int64 {
	days := int64(now.Sub(uploadDate).Hours() / 24)
	if days <= 0 {
		return viewCount
	}
	return int64(math.Round(float64(viewCount) / float64(days)))
}

// parseCount parses an integer cell leniently. Empty cells parse to zero,
// and float renderings of whole numbers ("123.0", as written by some
// spreadsheet tools) are accepted.
func parseCount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(math.Round(f))
	}
	return 0
}

// parseYear parses a year cell leniently, tolerating float renderings.
func parseYear(s string) int {
	return int(parseCount(s))
}
