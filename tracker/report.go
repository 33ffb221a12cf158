package tracker

import (
	"log"
	"sort"

	"mvtrack/storage"
)

// ReportRow is one song's entry in a proportion report.
type ReportRow struct {
	// Song is the underlying chart row.
	Song storage.Song
	// NormalizedViews is the song's views per day as a percentage of the
	// reference song's views per day.
	NormalizedViews float64
	// NormalizedVotes is the song's total votes as a percentage of the
	// reference song's total votes.
	NormalizedVotes float64
	// ProportionDifference is NormalizedViews minus NormalizedVotes:
	// positive when a song draws proportionally more views than votes.
	ProportionDifference float64
}

// Report compares each song's share of views against its share of votes
// for one chart year.
type Report struct {
	// Year is the chart year the report covers.
	Year int
	// Rows is sorted by views per day, highest first. The first row is
	// the reference song both metrics are normalized against.
	Rows []ReportRow
}

// BuildReport filters the chart down to songs from the given year that
// carry both metrics, sorts them by views per day, and normalizes votes
// and views against the top song. Songs missing either metric are
// excluded rather than reported as zero.
func BuildReport(songs []storage.Song, year int) *Report {
	rows := make([]ReportRow, 0, len(songs))
	for _, s := range songs {
		if s.Year != year || s.ViewsPerDay <= 0 || s.TotalVotes <= 0 {
			continue
		}
		rows = append(rows, ReportRow{Song: s})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Song.ViewsPerDay > rows[j].Song.ViewsPerDay
	})

	report := &Report{Year: year, Rows: rows}
	if len(rows) == 0 {
		return report
	}

	ref := rows[0].Song
	log.Printf("tracker: %d songs with complete data for %d, reference %q", len(rows), year, ref.Title)

	for i := range rows {
		r := &rows[i]
		r.NormalizedViews = float64(r.Song.ViewsPerDay) / float64(ref.ViewsPerDay) * 100
		r.NormalizedVotes = float64(r.Song.TotalVotes) / float64(ref.TotalVotes) * 100
		r.ProportionDifference = r.NormalizedViews - r.NormalizedVotes
	}

	return report
}
