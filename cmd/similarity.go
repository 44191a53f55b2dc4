package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/CadenFinley/web-scraper/internal/config"
	"github.com/CadenFinley/web-scraper/internal/dataset"
	"github.com/CadenFinley/web-scraper/internal/report"
	"github.com/CadenFinley/web-scraper/internal/similarity"
	"github.com/spf13/cobra"
)

func newSimilarityCmd() *cobra.Command {
	var inputPath string
	var outputPath string
	var threshold float64
	var maxMatches int
	var workers int

	cmd := &cobra.Command{
		Use:   "similarity",
		Short: "Re-run title matching over a previous hymn dump",
		Long: `Load a hymn dump written by collect (.parquet or .csv) and write a new similarity
report without contacting the site.`,
		Example: `  # Tighter threshold over an earlier run
  hymnal-scraper similarity --input hymnal_data_03-07-2024.parquet --threshold 0.9 --output similar.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(inputPath); os.IsNotExist(err) {
				return fmt.Errorf("input file not found: %s", inputPath)
			}
			if threshold < 0 || threshold > 1 {
				return fmt.Errorf("%w: similarity threshold must be within [0,1], got %g", config.ErrInvalid, threshold)
			}
			if maxMatches < 0 {
				return fmt.Errorf("%w: max matches must not be negative, got %d", config.ErrInvalid, maxMatches)
			}

			hymns, err := dataset.NewLoader(inputPath).Load()
			if err != nil {
				return err
			}

			rows := similarity.Find(hymns, similarity.Options{
				Threshold:  threshold,
				MaxMatches: maxMatches,
				Workers:    workers,
			})
			if err := report.SimilarityTable(rows).WriteFile(outputPath); err != nil {
				return err
			}

			slog.Info("Wrote similarity report", "path", outputPath, "hymns", len(hymns), "rows", len(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Path to a hymn dump (.parquet or .csv)")
	cmd.Flags().StringVar(&outputPath, "output", "hymn_similarity.csv", "Path to output similarity CSV")
	cmd.Flags().Float64Var(&threshold, "threshold", config.DefaultThreshold, "Minimum title similarity ratio")
	cmd.Flags().IntVar(&maxMatches, "max-matches", config.DefaultMaxMatches, "Maximum matches per hymn (0 for no limit)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Scoring goroutines (0 for GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
