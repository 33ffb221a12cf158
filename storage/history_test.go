package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestHistory(t *testing.T) *HistoryStore {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")

	store, err := NewHistoryStore(path)
	if err != nil {
		t.Fatalf("NewHistoryStore() error = %v", err)
	}
	return store
}

func TestNewHistoryStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")

	store, err := NewHistoryStore(path)
	if err != nil {
		t.Fatalf("NewHistoryStore() error = %v", err)
	}
	defer store.Close()

	// File should exist after creation
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("history file was not created")
	}
}

func TestHistoryStore_LoadExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	ctx := context.Background()

	store, err := NewHistoryStore(path)
	if err != nil {
		t.Fatalf("NewHistoryStore() error = %v", err)
	}

	run := &UpdateRun{
		StartedAt:  time.Now().Add(-time.Minute),
		FinishedAt: time.Now(),
		Updated:    12,
		Skipped:    3,
		Failed:     1,
	}
	if err := store.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	store.Close()

	// Reopen and verify
	store2, err := NewHistoryStore(path)
	if err != nil {
		t.Fatalf("NewHistoryStore() reopen error = %v", err)
	}
	defer store2.Close()

	loaded, err := store2.LastRun(ctx)
	if err != nil {
		t.Fatalf("LastRun() error = %v", err)
	}
	if loaded.Updated != 12 || loaded.Skipped != 3 || loaded.Failed != 1 {
		t.Errorf("LastRun() = %+v, want counts 12/3/1", loaded)
	}
}

func TestHistoryStore_RecordRun_AssignsID(t *testing.T) {
	store := newTestHistory(t)
	defer store.Close()

	run := &UpdateRun{StartedAt: time.Now(), FinishedAt: time.Now()}
	if err := store.RecordRun(context.Background(), run); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if run.ID == "" {
		t.Error("RecordRun() did not assign ID")
	}
}

func TestHistoryStore_Runs(t *testing.T) {
	store := newTestHistory(t)
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		run := &UpdateRun{
			StartedAt: time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC),
			Updated:   i,
		}
		if err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	// Newest first
	runs, err := store.Runs(ctx, 0)
	if err != nil {
		t.Fatalf("Runs() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Runs() len = %d, want 3", len(runs))
	}
	if runs[0].Updated != 2 || runs[2].Updated != 0 {
		t.Errorf("Runs() order = [%d %d %d], want newest first", runs[0].Updated, runs[1].Updated, runs[2].Updated)
	}

	// Limited
	runs, err = store.Runs(ctx, 2)
	if err != nil {
		t.Fatalf("Runs() error = %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("Runs(2) len = %d, want 2", len(runs))
	}
}

func TestHistoryStore_LastRun_Empty(t *testing.T) {
	store := newTestHistory(t)
	defer store.Close()

	_, err := store.LastRun(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LastRun() on empty history error = %v, want ErrNotFound", err)
	}
}

func TestStorageError(t *testing.T) {
	err := &StorageError{
		Op:     "update",
		Entity: "song",
		ID:     "dQw4w9WgXcQ",
		Err:    ErrNotFound,
	}

	want := "storage: update song dQw4w9WgXcQ: storage: not found"
	if err.Error() != want {
		t.Errorf("StorageError.Error() = %q, want %q", err.Error(), want)
	}

	if !errors.Is(err, ErrNotFound) {
		t.Error("StorageError should unwrap to ErrNotFound")
	}
}
