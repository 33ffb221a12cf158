package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

const schemaVersion = "1.0"

// HistoryStore keeps the log of past update runs in a single JSON file.
// Unlike the chart CSV, the history file is owned by this tool, so it is
// created on first use.
type HistoryStore struct {
	path string
	lock *FileLock
	data *historyData
	mu   sync.RWMutex
}

// historyData is the top-level JSON structure.
type historyData struct {
	Version   string       `json:"version"`
	UpdatedAt time.Time    `json:"updated_at"`
	Runs      []*UpdateRun `json:"runs"`
}

// NewHistoryStore opens the history file at the given path, creating it
// if it does not exist. The store holds a file lock until Close().
func NewHistoryStore(path string) (*HistoryStore, error) {
	s := &HistoryStore{
		path: path,
		lock: NewFileLock(path),
	}

	if err := s.lock.Lock(DefaultLockTimeout); err != nil {
		return nil, err
	}

	if err := s.load(); err != nil {
		s.lock.Unlock()
		return nil, err
	}

	return s, nil
}

// load reads the JSON file into memory. Creates empty data if file doesn't exist.
func (s *HistoryStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.data = &historyData{Version: schemaVersion, UpdatedAt: time.Now()}
			// Save immediately to catch permission errors early
			return s.save()
		}
		return &StorageError{Op: "read", Entity: "history", Err: err}
	}

	s.data = &historyData{}
	if err := json.Unmarshal(data, s.data); err != nil {
		return &StorageError{Op: "read", Entity: "history", Err: ErrStorageCorrupt}
	}

	return nil
}

// save persists the data to disk atomically.
func (s *HistoryStore) save() error {
	s.data.UpdatedAt = time.Now()

	writer, err := NewAtomicWriter(s.path)
	if err != nil {
		return &StorageError{Op: "write", Entity: "history", Err: err}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.data); err != nil {
		writer.Abort()
		return &StorageError{Op: "write", Entity: "history", Err: err}
	}

	if err := writer.Commit(); err != nil {
		return &StorageError{Op: "write", Entity: "history", Err: err}
	}

	return nil
}

// Close releases resources held by the store.
func (s *HistoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock.Unlock()
}

// RecordRun appends a completed run to the history. A run without an ID
// is assigned one.
func (s *HistoryStore) RecordRun(ctx context.Context, run *UpdateRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	s.data.Runs = append(s.data.Runs, run)
	return s.save()
}

// Runs returns past runs, newest first. A limit of zero or less returns
// all of them.
func (s *HistoryStore) Runs(ctx context.Context, limit int) ([]*UpdateRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*UpdateRun, 0, len(s.data.Runs))
	for i := len(s.data.Runs) - 1; i >= 0; i-- {
		runs = append(runs, s.data.Runs[i])
		if limit > 0 && len(runs) == limit {
			break
		}
	}
	return runs, nil
}

// LastRun returns the most recent run, or ErrNotFound if none has been
// recorded yet.
func (s *HistoryStore) LastRun(ctx context.Context) (*UpdateRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.data.Runs) == 0 {
		return nil, &StorageError{Op: "read", Entity: "run", Err: ErrNotFound}
	}
	return s.data.Runs[len(s.data.Runs)-1], nil
}
