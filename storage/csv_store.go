package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultLockTimeout is how long CSV updates wait to acquire the file lock.
const DefaultLockTimeout = 5 * time.Second

// CSVStore reads and updates the chart CSV. The file and its schema are
// owned externally; the store never creates the file and preserves any
// columns it does not understand. Updates rewrite the whole file through
// an atomic temp-file rename while holding an advisory lock.
type CSVStore struct {
	path string

	// LockTimeout bounds how long an update waits for the file lock.
	LockTimeout time.Duration

	now func() time.Time
}

// NewCSVStore creates a store for the chart CSV at path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{
		path:        path,
		LockTimeout: DefaultLockTimeout,
		now:         time.Now,
	}
}

// Path returns the location of the chart CSV.
func (s *CSVStore) Path() string { return s.path }

// Songs returns every row of the chart in file order.
func (s *CSVStore) Songs(ctx context.Context) ([]Song, error) {
	cf, err := s.load()
	if err != nil {
		return nil, &StorageError{Op: "load", Entity: "chart", Err: err}
	}

	songs := make([]Song, len(cf.records))
	for i := range cf.records {
		songs[i] = cf.song(i)
	}
	return songs, nil
}

// Lookup returns the first row tracking the given video ID.
func (s *CSVStore) Lookup(ctx context.Context, videoID string) (*Song, error) {
	songs, err := s.Songs(ctx)
	if err != nil {
		return nil, err
	}

	for i := range songs {
		if songs[i].YouTubeID == videoID {
			return &songs[i], nil
		}
	}
	return nil, &StorageError{Op: "lookup", Entity: "song", ID: videoID, Err: ErrNotFound}
}

// UpdateVideoStats writes a statistics snapshot into every row matching
// videoID (at most one by convention) and recomputes the views-per-day
// cell. The file is rewritten atomically; when no row matches it is left
// completely untouched and ErrNotFound is returned wrapped.
func (s *CSVStore) UpdateVideoStats(ctx context.Context, videoID string, viewCount int64, uploadDate string) (*Song, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, &StorageError{Op: "update", Entity: "song", Err: fmt.Errorf("%w: empty video id", ErrInvalidInput)}
	}

	uploadTime, err := time.Parse("2006-01-02", uploadDate)
	if err != nil {
		return nil, &StorageError{Op: "update", Entity: "song", ID: videoID,
			Err: fmt.Errorf("%w: bad upload date %q", ErrInvalidInput, uploadDate)}
	}

	lock := NewFileLock(s.path)
	if err := lock.Lock(s.LockTimeout); err != nil {
		return nil, &StorageError{Op: "lock", Entity: "chart", Err: err}
	}
	defer lock.Unlock()

	cf, err := s.load()
	if err != nil {
		return nil, &StorageError{Op: "load", Entity: "chart", Err: err}
	}

	idIdx, err := cf.col(ColYouTubeID)
	if err != nil {
		return nil, &StorageError{Op: "update", Entity: "chart", Err: err}
	}
	viewsIdx, err := cf.col(ColYouTubeViews)
	if err != nil {
		return nil, &StorageError{Op: "update", Entity: "chart", Err: err}
	}
	dateIdx, err := cf.col(ColYouTubeDate)
	if err != nil {
		return nil, &StorageError{Op: "update", Entity: "chart", Err: err}
	}
	perDayIdx, err := cf.col(ColViewsPerDay)
	if err != nil {
		return nil, &StorageError{Op: "update", Entity: "chart", Err: err}
	}

	viewsCell := strconv.FormatInt(viewCount, 10)
	perDayCell := strconv.FormatInt(ViewsPerDay(viewCount, uploadTime, s.now()), 10)

	matched := -1
	for i, rec := range cf.records {
		if strings.TrimSpace(rec[idIdx]) != videoID {
			continue
		}
		rec[viewsIdx] = viewsCell
		rec[dateIdx] = uploadDate
		rec[perDayIdx] = perDayCell
		if matched < 0 {
			matched = i
		}
	}
	if matched < 0 {
		return nil, &StorageError{Op: "update", Entity: "song", ID: videoID, Err: ErrNotFound}
	}

	if err := s.save(cf); err != nil {
		return nil, &StorageError{Op: "save", Entity: "chart", Err: err}
	}

	song := cf.song(matched)
	return &song, nil
}

// chartFile is a loaded chart: stripped header, data records, and a
// column-name index.
type chartFile struct {
	header  []string
	records [][]string
	cols    map[string]int
}

// load reads and parses the chart CSV. Column names are
// whitespace-stripped; short records are padded so cell writes stay in
// range.
func (s *CSVStore) load() (*chartFile, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged records

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageCorrupt, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrStorageCorrupt)
	}

	header := make([]string, len(rows[0]))
	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		header[i] = name
		cols[name] = i
	}

	records := make([][]string, 0, len(rows)-1)
	for _, rec := range rows[1:] {
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		}
		records = append(records, rec)
	}

	return &chartFile{header: header, records: records, cols: cols}, nil
}

// save rewrites the chart atomically: header first, then every record,
// with no synthetic index column.
func (s *CSVStore) save(cf *chartFile) error {
	w, err := NewAtomicWriter(s.path)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(cf.header); err != nil {
		w.Abort()
		return err
	}
	if err := cw.WriteAll(cf.records); err != nil {
		w.Abort()
		return err
	}

	return w.Commit()
}

// col returns the index of a required column.
func (cf *chartFile) col(name string) (int, error) {
	idx, ok := cf.cols[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing column %q", ErrStorageCorrupt, name)
	}
	return idx, nil
}

// song parses record i into a Song. Cells are trimmed and numeric cells
// parse leniently; missing optional columns yield zero values.
func (cf *chartFile) song(i int) Song {
	rec := cf.records[i]
	get := func(name string) string {
		idx, ok := cf.cols[name]
		if !ok || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	return Song{
		Row:          i,
		Title:        get(ColTitle),
		Year:         parseYear(get(ColYear)),
		TotalVotes:   parseCount(get(ColTotal)),
		YouTubeID:    get(ColYouTubeID),
		YouTubeViews: parseCount(get(ColYouTubeViews)),
		YouTubeDate:  get(ColYouTubeDate),
		ViewsPerDay:  parseCount(get(ColViewsPerDay)),
	}
}
