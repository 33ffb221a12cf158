// Package storage persists chart data: the external CSV of tracked songs
// and the local JSON history of update runs.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common storage conditions.
var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidInput indicates invalid or malformed input was provided.
	ErrInvalidInput = errors.New("storage: invalid input")
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = errors.New("storage: data corruption detected")
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = errors.New("storage: lock acquisition timeout")
)

// StorageError wraps storage errors with operation and entity context.
// Use errors.As() to extract this error type and get operation details:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s %s: %v\n", storErr.Op, storErr.Entity, storErr.ID, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("load", "update", "save", "lock").
	Op string
	// Entity is the entity type ("song", "run", "file").
	Entity string
	// ID is the entity ID if applicable.
	ID string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("storage: %s %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }

// ChartStore is the interface for reading and updating the tracked chart.
// Implementations must be safe for concurrent use within a process; the
// CSV implementation additionally holds a file lock across each
// read-modify-write so concurrent processes cannot clobber each other.
type ChartStore interface {
	// Songs returns every row of the chart in file order.
	Songs(ctx context.Context) ([]Song, error)
	// Lookup returns the row tracking the given video ID.
	// It returns ErrNotFound (wrapped) if no row matches.
	Lookup(ctx context.Context, videoID string) (*Song, error)
	// UpdateVideoStats writes a fetched statistics snapshot into the row
	// matching videoID and recomputes its views-per-day value. It returns
	// the updated row, or ErrNotFound (wrapped) if no row matches, in
	// which case the file is left untouched.
	UpdateVideoStats(ctx context.Context, videoID string, viewCount int64, uploadDate string) (*Song, error)
}
