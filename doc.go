// Package mvtrack tracks YouTube view statistics for a song chart kept
// in a CSV file.
//
// It fetches per-video statistics from the YouTube Data API and writes
// them back into the chart, adding a views-per-day metric that makes
// songs uploaded at different times comparable.
//
// Overview
//
// mvtrack provides high-level convenience functions for the most common operations:
//
//   - FetchVideoStats: Fetch title, view count and upload date for a video
//   - UpdateVideoStats: Write a statistics snapshot into the chart
//   - UpdateChart: Refresh every song in the chart with a linked video
//
// Quick Start
//
// Fetch statistics for one video:
//
//	ctx := context.Background()
//	title, views, uploadDate := mvtrack.FetchVideoStats(ctx, "dQw4w9WgXcQ")
//	if title == "" && views == 0 && uploadDate == "" {
//		fmt.Println("no statistics available")
//	}
//	fmt.Printf("%s: %d views since %s\n", title, views, uploadDate)
//
// Write them into the chart:
//
//	mvtrack.UpdateVideoStats(ctx, "dQw4w9WgXcQ", title, views, uploadDate)
//
// Refresh the whole chart:
//
//	result, err := mvtrack.UpdateChart(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("updated %d of %d songs\n", result.Updated, result.Total)
//
// Both FetchVideoStats and UpdateVideoStats follow a deliberate
// silent-failure contract: problems are logged and reported as zero
// values (or no write at all) so a scripted pass over many songs never
// stops on one bad video. Use the tracker package directly when errors
// should propagate instead.
//
// Configuration
//
// mvtrack uses a configuration system that loads settings from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (mvtrack.json or ~/.config/mvtrack/mvtrack.json)
//   3. Default values (lowest priority)
//
// A .env file in the working directory is read into the environment
// first, so the API key can live there.
//
// Environment variables:
//
//   - YOUTUBE_API_KEY: Data API key(s), comma-separated for rotation
//   - MVTRACK_CSV_PATH: Location of the chart CSV
//   - MVTRACK_HISTORY_PATH: Location of the update-run history file
//   - MVTRACK_CHART_YEAR: Chart year reports cover
//   - MVTRACK_REQUEST_TIMEOUT: Timeout for one API request
//   - MVTRACK_RATE_PER_SECOND: API request throttle for full updates
//   - MVTRACK_CACHE_TTL: How long fetched statistics stay fresh
//   - MVTRACK_LOCK_TIMEOUT: Maximum wait for the chart file lock
//   - MVTRACK_MAX_RETRIES: Maximum retry attempts
//   - MVTRACK_INITIAL_BACKOFF: Initial retry backoff duration
//   - MVTRACK_MAX_BACKOFF: Maximum retry backoff duration
//
// The Chart File
//
// The chart CSV is owned by the voting sheet that produces it; mvtrack
// only fills in statistics columns. Column names are matched by header
// (surrounding whitespace is tolerated), and columns mvtrack does not
// know about pass through rewrites unchanged. Four columns are required:
//
//   - youtube_id: the video each song is tracked by
//   - youtube_views: filled with the fetched view count
//   - youtube_date: filled with the upload date (YYYY-MM-DD)
//   - view per day: filled with views divided by days since upload
//
// Error Handling
//
// Operations in the sub-packages return errors that implement standard
// Go error handling:
//
// Checking for sentinel errors:
//
//	if errors.Is(err, mvtrack.ErrVideoNotFound) {
//		fmt.Println("Video not found")
//	}
//
// Extracting wrapped error details:
//
//	var statsErr *mvtrack.StatsError
//	if errors.As(err, &statsErr) {
//		fmt.Printf("Fetching %s failed: %v\n", statsErr.VideoID, statsErr.Err)
//	}
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - youtube: Video statistics retrieval with quota tracking and caching
//   - storage: The chart CSV store and the update-run history
//   - tracker: Update orchestration and proportion reports
//   - config: Configuration management
//   - retry: Exponential backoff retry logic
//
// Example using the youtube package directly:
//
//	source, err := youtube.NewAPISource(os.Getenv("YOUTUBE_API_KEY"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	stats, err := source.VideoStats(ctx, "dQw4w9WgXcQ")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Title: %s\nViews: %d\n", stats.Title, stats.ViewCount)
//
package mvtrack
