package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "hymnal-scraper",
		Short: "Hymnal listing scraper with fuzzy title matching",
		Long: `Hymnal scraper collects hymn listings from hymnary.org for a set of hymnal codes.

It writes a full record dump, a per-hymnal summary, a cross-hymnal title matrix and a
report of similar titles across hymnals.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	cmd.AddCommand(newCollectCmd())
	cmd.AddCommand(newSimilarityCmd())

	return cmd
}
