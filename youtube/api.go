package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"mvtrack/retry"
)

// MaxBatchIDs is the maximum number of video IDs the videos.list endpoint
// accepts in a single call.
const MaxBatchIDs = 50

// dailyQuotaUnits is the default daily quota for a Data API project.
const dailyQuotaUnits = 10000

// APISource implements StatsProvider using YouTube Data API v3.
// It tracks estimated quota usage and rotates to the next configured API key
// when the active one runs out of quota.
type APISource struct {
	services []*youtube.Service
	keys     []string

	// Quota tracking
	mu             sync.Mutex
	active         int // Index of the active key/service
	estimatedQuota int // Estimated remaining quota units for the active key
	lastQuotaReset time.Time
	quotaExhausted bool

	RetryConfig *retry.Config
}

// NewAPISource creates a Data API v3-backed stats source. At least one
// API key is required; additional keys act as quota spillover.
func NewAPISource(keys ...string) (*APISource, error) {
	return newAPISource(nil, keys)
}

// NewAPISourceWithClient creates a stats source that issues requests through
// the given HTTP client. Used in tests to stub the transport.
func NewAPISourceWithClient(client *http.Client, keys ...string) (*APISource, error) {
	return newAPISource(client, keys)
}

func newAPISource(client *http.Client, keys []string) (*APISource, error) {
	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: set YOUTUBE_API_KEY", ErrAPIKeyMissing)
	}

	services := make([]*youtube.Service, 0, len(cleaned))
	for _, key := range cleaned {
		// A custom client carries its own transport; the API key option
		// would be ignored alongside it.
		opts := []option.ClientOption{option.WithAPIKey(key)}
		if client != nil {
			opts = []option.ClientOption{option.WithHTTPClient(client)}
		}
		service, err := youtube.NewService(context.Background(), opts...)
		if err != nil {
			return nil, fmt.Errorf("create youtube service: %w", err)
		}
		services = append(services, service)
	}

	cfg := retry.DefaultConfig()
	return &APISource{
		services:       services,
		keys:           cleaned,
		estimatedQuota: dailyQuotaUnits,
		lastQuotaReset: time.Now(),
		RetryConfig:    &cfg,
	}, nil
}

// VideoStats fetches statistics and snippet data for a single video.
func (a *APISource) VideoStats(ctx context.Context, videoID string) (*VideoStats, error) {
	results, err := a.fetch(ctx, []string{videoID})
	if err != nil {
		return nil, &StatsError{Source: "api", VideoID: videoID, Err: err}
	}

	stats, ok := results[videoID]
	if !ok {
		return nil, &StatsError{Source: "api", VideoID: videoID, Err: ErrVideoNotFound}
	}
	return stats, nil
}

// BatchVideoStats fetches statistics for multiple videos, chunked at the
// API's 50-ID limit. Unknown IDs are absent from the result map.
func (a *APISource) BatchVideoStats(ctx context.Context, videoIDs []string) (map[string]*VideoStats, error) {
	results := make(map[string]*VideoStats, len(videoIDs))

	for _, chunk := range chunkIDs(videoIDs, MaxBatchIDs) {
		chunkResults, err := a.fetch(ctx, chunk)
		if err != nil {
			return nil, &StatsError{Source: "api", Err: err}
		}
		for id, stats := range chunkResults {
			results[id] = stats
		}
	}

	return results, nil
}

// fetch performs one retried videos.list call for up to MaxBatchIDs IDs.
func (a *APISource) fetch(ctx context.Context, videoIDs []string) (map[string]*VideoStats, error) {
	cfg := a.RetryConfig
	if cfg == nil {
		defaultCfg := retry.DefaultConfig()
		cfg = &defaultCfg
	}

	var results map[string]*VideoStats
	err := retry.Do(ctx, *cfg, apiErrorClassifier, func(ctx context.Context) error {
		call := a.service().Videos.List([]string{"statistics", "snippet"}).
			Id(videoIDs...).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			if ctx.Err() != nil {
				return ErrNetworkTimeout
			}
			if isQuotaError(err) {
				// Rotating makes the quota error retryable on the next key.
				if a.rotateKey() {
					return err
				}
				return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
			}
			return err
		}

		a.trackQuotaUsage(1) // videos.list uses 1 unit per call

		results = make(map[string]*VideoStats, len(resp.Items))
		fetchedAt := time.Now()
		for _, item := range resp.Items {
			stats := videoFromItem(item)
			if stats == nil {
				continue
			}
			stats.FetchedAt = fetchedAt
			results[stats.VideoID] = stats
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// videoFromItem converts an API video resource into a VideoStats snapshot.
func videoFromItem(item *youtube.Video) *VideoStats {
	if item == nil || item.Id == "" {
		return nil
	}

	stats := &VideoStats{VideoID: item.Id}
	if item.Snippet != nil {
		stats.Title = item.Snippet.Title
		stats.UploadDate = uploadDateFromTimestamp(item.Snippet.PublishedAt)
	}
	if item.Statistics != nil {
		stats.ViewCount = int64(item.Statistics.ViewCount)
	}
	return stats
}

// uploadDateFromTimestamp extracts the YYYY-MM-DD date portion of an
// RFC3339 published timestamp.
func uploadDateFromTimestamp(ts string) string {
	if len(ts) < 10 {
		return ts
	}
	return ts[:10]
}

// chunkIDs splits ids into chunks of at most size elements.
func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// service returns the service bound to the active API key.
func (a *APISource) service() *youtube.Service {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.services[a.active]
}

// rotateKey advances to the next configured API key. It returns false if
// no unused key remains.
func (a *APISource) rotateKey() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active+1 >= len(a.services) {
		a.quotaExhausted = true
		return false
	}

	a.active++
	a.estimatedQuota = dailyQuotaUnits
	a.quotaExhausted = false
	log.Printf("youtube: quota exhausted, rotating to api key %d of %d", a.active+1, len(a.services))
	return true
}

// trackQuotaUsage updates the estimated quota and checks if we've exhausted it.
func (a *APISource) trackQuotaUsage(units int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Reset quota if a day has passed
	if time.Since(a.lastQuotaReset) > 24*time.Hour {
		a.estimatedQuota = dailyQuotaUnits
		a.lastQuotaReset = time.Now()
		a.quotaExhausted = false
		log.Printf("youtube: quota reset (new day)")
	}

	a.estimatedQuota -= units

	if a.estimatedQuota <= 0 && !a.quotaExhausted {
		log.Printf("youtube: estimated quota exhausted for key %d of %d", a.active+1, len(a.services))
		a.quotaExhausted = true
	}
}

// EstimatedQuota returns the estimated remaining quota units for the active key.
func (a *APISource) EstimatedQuota() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.estimatedQuota
}

// QuotaExhausted returns whether the active key's quota has been exhausted.
func (a *APISource) QuotaExhausted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.quotaExhausted
}

// ActiveKey returns the index of the API key currently in use.
func (a *APISource) ActiveKey() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// isQuotaError reports whether err is a Data API quota exhaustion error.
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "quotaExceeded") || strings.Contains(msg, "dailyLimitExceeded")
}

// apiErrorClassifier determines if an API error is retryable.
func apiErrorClassifier(err error) bool {
	if err == nil {
		return false
	}

	// Don't retry specific sentinel errors
	if errors.Is(err, ErrVideoNotFound) || errors.Is(err, ErrAPIKeyMissing) || errors.Is(err, ErrQuotaExceeded) {
		return false
	}

	// Rate limit errors are retryable
	if strings.Contains(err.Error(), "quotaExceeded") {
		return true
	}
	if strings.Contains(err.Error(), "rateLimitExceeded") {
		return true
	}

	// Timeout errors are retryable
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrNetworkTimeout) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	// Default to retryable for unknown errors
	return true
}
