package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/CadenFinley/web-scraper/internal/config"
	"github.com/CadenFinley/web-scraper/internal/counter"
	"github.com/CadenFinley/web-scraper/internal/dispatch"
	"github.com/CadenFinley/web-scraper/internal/fetch"
	"github.com/CadenFinley/web-scraper/internal/hymnary"
	"github.com/CadenFinley/web-scraper/internal/metrics"
	"github.com/CadenFinley/web-scraper/internal/models"
	"github.com/CadenFinley/web-scraper/internal/report"
	"github.com/CadenFinley/web-scraper/internal/similarity"
	"github.com/spf13/cobra"
)

type collectFlags struct {
	configPath  string
	workers     int
	maxWorkers  int
	delay       time.Duration
	timeout     time.Duration
	baseURL     string
	outputDir   string
	threshold   float64
	maxMatches  int
	metricsFile string
}

func newCollectCmd() *cobra.Command {
	var flags collectFlags

	cmd := &cobra.Command{
		Use:   "collect [flags] <hymnal>...",
		Short: "Collect hymnal listings and write the reports",
		Long: `Collect every listing page of each hymnal code, merge the records and write:

  hymnal_data_<date>.csv / .parquet   every collected hymn
  hymnals_<date>.csv                  one row per hymnal
  book_data_<date>.csv                title counts per hymnal
  hymn_similarity_<date>.csv          similar titles across hymnals
  run_<date>.yaml                     run manifest

Requests from all workers share one pacing delay.`,
		Example: `  # Collect two hymnals with the defaults
  hymnal-scraper collect SoP1870 GSC1986

  # Use a config file and write into ./out
  hymnal-scraper collect --config hymnals.yaml --output-dir out

  # Faster run against a local mirror
  hymnal-scraper collect --base-url http://localhost:8080 --delay 0 SoP1870`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags, args)
			if err != nil {
				return err
			}

			_, err = runCollect(cmd.Context(), cfg, cmd.OutOrStdout())
			return err
		},
	}

	bindCollectFlags(cmd, &flags)

	return cmd
}

func bindCollectFlags(cmd *cobra.Command, flags *collectFlags) {
	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "Path to YAML config file")
	f.IntVar(&flags.workers, "workers", config.DefaultWorkers, "Number of hymnals collected concurrently")
	f.IntVar(&flags.maxWorkers, "max-workers", config.DefaultMaxWorkers, "Upper bound on workers (0 for no bound)")
	f.DurationVar(&flags.delay, "delay", config.DefaultRequestDelay, "Minimum spacing between requests across all workers")
	f.DurationVar(&flags.timeout, "timeout", config.DefaultRequestTimeout, "Per-request timeout")
	f.StringVar(&flags.baseURL, "base-url", config.DefaultBaseURL, "Site base URL")
	f.StringVar(&flags.outputDir, "output-dir", ".", "Directory for output files")
	f.Float64Var(&flags.threshold, "threshold", config.DefaultThreshold, "Minimum title similarity ratio")
	f.IntVar(&flags.maxMatches, "max-matches", config.DefaultMaxMatches, "Maximum matches per hymn (0 for no limit)")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
}

// resolveConfig layers defaults, the config file, the environment, explicitly set flags
// and positional hymnal codes, then validates the result.
func resolveConfig(cmd *cobra.Command, flags collectFlags, args []string) (config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	set := cmd.Flags().Changed
	if set("workers") {
		cfg.Workers = flags.workers
	}
	if set("max-workers") {
		cfg.MaxWorkers = flags.maxWorkers
	}
	if set("delay") {
		cfg.RequestDelay = flags.delay
	}
	if set("timeout") {
		cfg.RequestTimeout = flags.timeout
	}
	if set("base-url") {
		cfg.BaseURL = flags.baseURL
	}
	if set("output-dir") {
		cfg.OutputDir = flags.outputDir
	}
	if set("threshold") {
		cfg.Similarity.Threshold = flags.threshold
	}
	if set("max-matches") {
		cfg.Similarity.MaxMatches = flags.maxMatches
	}
	if set("metrics-file") {
		cfg.MetricsFile = flags.metricsFile
	}
	if len(args) > 0 {
		cfg.Hymnals = args
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runCollect performs one full collection run and writes its outputs.
func runCollect(ctx context.Context, cfg config.Config, out io.Writer) (*report.Manifest, error) {
	started := time.Now()
	recorder := metrics.New()
	requests := counter.New()
	ids := counter.New()

	client := fetch.NewClient(cfg.RequestTimeout, cfg.UserAgent)
	paced := fetch.NewPaced(client, cfg.RequestDelay, requests, recorder)
	collector := hymnary.NewCollector(paced, ids, cfg.BaseURL, recorder)
	dispatcher := dispatch.New(collector, cfg.EffectiveWorkers(), recorder)

	result, err := dispatcher.Run(ctx, cfg.Hymnals)
	if err != nil {
		return nil, fmt.Errorf("failed to collect hymnals: %w", err)
	}

	manifest := report.NewManifest(started, report.RunConfig{
		BaseURL:        cfg.BaseURL,
		Hymnals:        cfg.Hymnals,
		Workers:        result.Workers,
		RequestDelay:   cfg.RequestDelay,
		RequestTimeout: cfg.RequestTimeout,
		Threshold:      cfg.Similarity.Threshold,
		MaxMatches:     cfg.Similarity.MaxMatches,
	})
	for _, o := range result.Outcomes {
		h := report.HymnalResult{Code: o.Code, Hymns: o.Hymns, Duration: o.Duration}
		if o.Err != nil {
			h.Error = o.Err.Error()
		}
		manifest.Hymnals = append(manifest.Hymnals, h)
	}
	manifest.TotalHymns = len(result.Hymns)
	manifest.TotalRequests = paced.Requests()
	slog.Info("Total requests made", "requests", manifest.TotalRequests)

	if len(result.Hymns) > 0 {
		if err := writeOutputs(cfg, started, result.Hymns, manifest); err != nil {
			return nil, err
		}
	} else {
		slog.Warn("No hymns collected, skipping output files")
		manifest.FinishedAt = time.Now()
	}

	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			return nil, err
		}
	}

	report.PrintSummary(out, report.Summarize(result.Hymns), manifest)
	return manifest, nil
}

func writeOutputs(cfg config.Config, started time.Time, hymns []models.Hymn, manifest *report.Manifest) error {
	rows := similarity.Find(hymns, similarity.Options{
		Threshold:  cfg.Similarity.Threshold,
		MaxMatches: cfg.Similarity.MaxMatches,
		Workers:    cfg.Similarity.Workers,
	})
	manifest.SimilarityRows = len(rows)
	slog.Info("Similarity analysis complete", "hymns", len(hymns), "rows", len(rows))

	files := report.FilesFor(cfg.OutputDir, started)
	tables := []struct {
		path  string
		table report.Table
	}{
		{files.Hymns, report.HymnTable(hymns)},
		{files.Hymnals, report.HymnalTable(hymns)},
		{files.BookData, report.BookDataTable(hymns)},
		{files.Similarity, report.SimilarityTable(rows)},
	}
	for _, t := range tables {
		if err := t.table.WriteFile(t.path); err != nil {
			return err
		}
		slog.Info("Wrote report", "path", t.path, "rows", len(t.table.Rows))
	}

	if err := report.WriteParquet(files.HymnsParquet, hymns); err != nil {
		return err
	}

	manifest.Files = append(files.Tables(), files.HymnsParquet, files.Manifest)
	manifest.FinishedAt = time.Now()
	if err := manifest.Save(files.Manifest); err != nil {
		return err
	}
	slog.Info("Wrote run manifest", "path", files.Manifest, "run_id", manifest.RunID)
	return nil
}
