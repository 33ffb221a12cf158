package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"mvtrack/config"
	"mvtrack/output"
	"mvtrack/storage"
	"mvtrack/tracker"
	"mvtrack/youtube"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "fetch":
		cmdFetch(args)
	case "update":
		cmdUpdate(args)
	case "report":
		cmdReport(args)
	case "history":
		cmdHistory(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `mvtrack - YouTube view tracker for the song chart CSV

Usage:
  mvtrack fetch <video-id>           Fetch current statistics for a video
  mvtrack update [flags] [video-id]  Update the chart (one video, or every linked song)
  mvtrack report [flags]             Compare vote share against view share
  mvtrack history [flags]            Show past update runs
  mvtrack help                       Show this help message

Examples:
  mvtrack fetch dQw4w9WgXcQ          # Look up one video
  mvtrack update                     # Refresh every linked song in data.csv
  mvtrack update dQw4w9WgXcQ         # Refresh a single song
  mvtrack update -csv chart.csv -q   # Cron-friendly full refresh
  mvtrack report -year 2024          # Vote/view proportion table
  mvtrack history -limit 5           # Recent runs

The YouTube Data API key is read from YOUTUBE_API_KEY; a .env file in the
working directory is honored. Multiple keys may be given comma-separated.

For help on specific command: mvtrack <command> -h
`)
}

func cmdFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	colorMode := fs.String("color", "auto", "Color output: auto, always, or never")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mvtrack fetch [flags] <video-id>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing video-id\n")
		fs.Usage()
		os.Exit(1)
	}
	videoID := argv[0]

	p := newPrinter(*colorMode, false)
	cfg := loadConfig(p)

	source := buildSource(cfg, p)
	manager := tracker.NewManager(source, buildStore(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Fetching statistics for %s...\n", videoID)
	title, views, uploadDate := manager.FetchVideoStats(ctx, videoID)
	if title == "" && views == 0 && uploadDate == "" {
		p.Error("no statistics available for %s", videoID)
		os.Exit(1)
	}

	fmt.Printf("Video ID:    %s\n", videoID)
	fmt.Printf("Title:       %s\n", title)
	fmt.Printf("Views:       %d\n", views)
	fmt.Printf("Upload date: %s\n", uploadDate)
	fmt.Printf("URL:         https://www.youtube.com/watch?v=%s\n", videoID)
}

func cmdUpdate(args []string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	csvPath := fs.String("csv", "", "Chart CSV path (overrides config)")
	colorMode := fs.String("color", "auto", "Color output: auto, always, or never")
	quiet := fs.Bool("q", false, "Suppress everything except errors")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mvtrack update [flags] [video-id]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	p := newPrinter(*colorMode, *quiet)
	cfg := loadConfig(p)
	if *csvPath != "" {
		cfg.CSVPath = *csvPath
	}

	source := buildSource(cfg, p)
	store := buildStore(cfg)

	// Single video: update one row and report errors directly.
	if argv := fs.Args(); len(argv) > 0 {
		videoID := argv[0]

		manager := tracker.NewManager(source, store)
		tuneManager(manager, cfg)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()

		if !*quiet {
			fmt.Fprintf(os.Stderr, "Updating %s...\n", videoID)
		}
		song, err := manager.UpdateVideo(ctx, videoID)
		if err != nil {
			p.Error("update %s: %v", videoID, err)
			os.Exit(1)
		}
		p.Success("%s: %d views, %d per day", song.Title, song.YouTubeViews, song.ViewsPerDay)
		return
	}

	// Full run: refresh every linked song, recording the run when the
	// history store is usable.
	history, err := storage.NewHistoryStore(cfg.HistoryPath)
	if err != nil {
		p.Warning("run history disabled: %v", err)
		history = nil
	} else {
		defer history.Close()
	}

	manager := tracker.NewManagerWithHistory(source, store, history)
	tuneManager(manager, cfg)

	if !*quiet {
		manager.OnProgress = func(pr tracker.Progress) {
			switch {
			case pr.Err == nil:
				fmt.Fprintf(os.Stderr, "[%d/%d] %s: %d views/day\n",
					pr.Processed, pr.Total, truncate(pr.Song.Title, 40), pr.Song.ViewsPerDay)
			case errors.Is(pr.Err, youtube.ErrVideoNotFound):
				fmt.Fprintf(os.Stderr, "[%d/%d] %s: video gone, skipped\n",
					pr.Processed, pr.Total, truncate(pr.Song.Title, 40))
			default:
				fmt.Fprintf(os.Stderr, "[%d/%d] %s: %v\n",
					pr.Processed, pr.Total, truncate(pr.Song.Title, 40), pr.Err)
			}
		}
	}

	result, err := manager.UpdateAll(context.Background())
	if err != nil {
		p.Error("update aborted: %v", err)
		if result != nil && result.Updated > 0 {
			fmt.Fprintf(os.Stderr, "%d rows were already written before the abort\n", result.Updated)
		}
		os.Exit(1)
	}

	elapsed := result.FinishedAt.Sub(result.StartedAt).Round(time.Second)
	p.Success("Updated %d of %d songs (%d skipped, %d failed) in %s",
		result.Updated, result.Total, result.Skipped, result.Failed, elapsed)
}

func cmdReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	year := fs.Int("year", 0, "Chart year (0 = configured year)")
	csvPath := fs.String("csv", "", "Chart CSV path (overrides config)")
	colorMode := fs.String("color", "auto", "Color output: auto, always, or never")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mvtrack report [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	p := newPrinter(*colorMode, false)
	cfg := loadConfig(p)
	if *csvPath != "" {
		cfg.CSVPath = *csvPath
	}
	if *year > 0 {
		cfg.ChartYear = *year
	}

	store := buildStore(cfg)
	songs, err := store.Songs(context.Background())
	if err != nil {
		p.Error("load chart: %v", err)
		os.Exit(1)
	}

	report := tracker.BuildReport(songs, cfg.ChartYear)
	if len(report.Rows) == 0 {
		p.Warning("no songs with complete data for %d", cfg.ChartYear)
		return
	}

	p.Header(fmt.Sprintf("Chart year %d: votes vs daily views", report.Year))

	table := output.NewTable([]string{"#", "Title", "Views/Day", "Votes", "Views %", "Votes %", "Diff"})
	for i, row := range report.Rows {
		table.AddRow([]string{
			strconv.Itoa(i + 1),
			row.Song.Title,
			strconv.FormatInt(row.Song.ViewsPerDay, 10),
			strconv.FormatInt(row.Song.TotalVotes, 10),
			fmt.Sprintf("%.1f%%", row.NormalizedViews),
			fmt.Sprintf("%.1f%%", row.NormalizedVotes),
			fmt.Sprintf("%+.1f%%", row.ProportionDifference),
		})
	}
	table.Render()

	fmt.Fprintf(os.Stderr, "\n%d songs, normalized against %q\n", len(report.Rows), report.Rows[0].Song.Title)
}

func cmdHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Number of runs to show (0 = all)")
	colorMode := fs.String("color", "auto", "Color output: auto, always, or never")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mvtrack history [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	p := newPrinter(*colorMode, false)
	cfg := loadConfig(p)

	history, err := storage.NewHistoryStore(cfg.HistoryPath)
	if err != nil {
		p.Error("open history: %v", err)
		os.Exit(1)
	}
	defer history.Close()

	runs, err := history.Runs(context.Background(), *limit)
	if err != nil {
		p.Error("read history: %v", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		p.Info("No update runs recorded yet.")
		return
	}

	table := output.NewTable([]string{"Started", "Duration", "Updated", "Skipped", "Failed"})
	for _, run := range runs {
		table.AddRow([]string{
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(),
			strconv.Itoa(run.Updated),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.Failed),
		})
	}
	table.Render()
}

// newPrinter builds the terminal printer from the -color and -q flags.
func newPrinter(mode string, quiet bool) *output.Printer {
	colorMode, err := output.ParseColorMode(mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	useColors := output.ResolveColors(colorMode)
	if quiet {
		return output.NewQuietPrinter(useColors)
	}
	return output.NewPrinter(useColors)
}

func loadConfig(p *output.Printer) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		p.Error("load config: %v", err)
		os.Exit(1)
	}
	return cfg
}

// buildSource wires the API source from config: keys, retry policy, and
// the response cache when enabled.
func buildSource(cfg *config.Config, p *output.Printer) youtube.StatsProvider {
	api, err := youtube.NewAPISource(cfg.APIKeys...)
	if err != nil {
		p.Error("%v", err)
		os.Exit(1)
	}
	api.RetryConfig = cfg.RetryConfig()

	if cfg.CacheTTL > 0 {
		return youtube.NewCachedSource(api, cfg.CacheTTL)
	}
	return api
}

func buildStore(cfg *config.Config) *storage.CSVStore {
	store := storage.NewCSVStore(cfg.CSVPath)
	store.LockTimeout = cfg.LockTimeout
	return store
}

func tuneManager(m *tracker.Manager, cfg *config.Config) {
	m.Limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	m.MaxConsecutiveFailures = cfg.MaxConsecutiveFailures
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
