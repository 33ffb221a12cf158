package mvtrack

import (
	"mvtrack/retry"
	"mvtrack/storage"
	"mvtrack/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, youtube.ErrVideoNotFound) {
//		fmt.Println("Video not found")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var statsErr *youtube.StatsError
//	if errors.As(err, &statsErr) {
//		fmt.Printf("Fetching %s failed: %v\n", statsErr.VideoID, statsErr.Err)
//	}

// Exported error types from sub-packages:
//
// From youtube package:
//   - youtube.ErrVideoNotFound: Video does not exist or is private
//   - youtube.ErrQuotaExceeded: Daily API quota exhausted on every key
//   - youtube.ErrRateLimited: Rate limit exceeded
//   - youtube.ErrNetworkTimeout: Network timeout occurred
//   - youtube.ErrAPIKeyMissing: No API key configured
//   - youtube.StatsProvider: Interface for statistics retrieval
//   - youtube.StatsError: Error during statistics retrieval
//
// From retry package:
//   - retry.RetryableError: Error after max retries exceeded
//
// From storage package:
//   - storage.ErrNotFound: Entity not found in storage
//   - storage.ErrInvalidInput: Invalid input provided
//   - storage.ErrStorageCorrupt: Data corruption detected
//   - storage.ErrLockTimeout: File lock timeout
//   - storage.StorageError: General storage operation error

// Type aliases for convenient error handling.
type (
	// StatsError wraps errors during statistics retrieval.
	StatsError = youtube.StatsError
	// RetryableError wraps errors that occurred after retries were exhausted.
	RetryableError = retry.RetryableError
	// StorageError wraps errors during storage operations.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrVideoNotFound indicates the video does not exist or is private.
	ErrVideoNotFound = youtube.ErrVideoNotFound
	// ErrQuotaExceeded indicates the daily API quota is exhausted on every key.
	ErrQuotaExceeded = youtube.ErrQuotaExceeded
	// ErrRateLimited indicates the operation was rate limited.
	ErrRateLimited = youtube.ErrRateLimited
	// ErrNetworkTimeout indicates a network timeout occurred.
	ErrNetworkTimeout = youtube.ErrNetworkTimeout
	// ErrAPIKeyMissing indicates no API key was configured.
	ErrAPIKeyMissing = youtube.ErrAPIKeyMissing

	// Storage errors
	// ErrNotFound indicates an entity was not found in storage.
	ErrNotFound = storage.ErrNotFound
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = storage.ErrInvalidInput
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = storage.ErrStorageCorrupt
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = storage.ErrLockTimeout
)

// IsRetryable determines if an error should be retried.
// It returns false for context cancellation and deadline errors.
func IsRetryable(err error) bool {
	return retry.IsRetryable(err)
}
