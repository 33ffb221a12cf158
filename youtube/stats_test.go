package youtube

import (
	"errors"
	"testing"
	"time"
)

func TestVideoStats_VideoURL(t *testing.T) {
	stats := VideoStats{VideoID: "dQw4w9WgXcQ"}
	want := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	if got := stats.VideoURL(); got != want {
		t.Errorf("VideoURL() = %q, want %q", got, want)
	}
}

func TestVideoStats_UploadTime(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{
			name: "valid date",
			date: "2009-10-25",
			want: time.Date(2009, 10, 25, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "empty date",
			date: "",
			want: time.Time{},
		},
		{
			name: "malformed date",
			date: "25/10/2009",
			want: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := VideoStats{UploadDate: tt.date}
			if got := stats.UploadTime(); !got.Equal(tt.want) {
				t.Errorf("UploadTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatsError(t *testing.T) {
	err := &StatsError{
		Source:  "api",
		VideoID: "dQw4w9WgXcQ",
		Err:     ErrVideoNotFound,
	}

	want := "youtube: api stats for dQw4w9WgXcQ: youtube: video not found"
	if err.Error() != want {
		t.Errorf("StatsError.Error() = %q, want %q", err.Error(), want)
	}

	if !errors.Is(err, ErrVideoNotFound) {
		t.Error("StatsError should unwrap to ErrVideoNotFound")
	}
}

func TestStatsError_NoVideoID(t *testing.T) {
	err := &StatsError{
		Source: "api",
		Err:    errors.New("connection reset"),
	}

	want := "youtube: api stats: connection reset"
	if err.Error() != want {
		t.Errorf("StatsError.Error() = %q, want %q", err.Error(), want)
	}
}
