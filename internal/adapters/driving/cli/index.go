package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

var (
	indexWatch   bool
	indexWorkers int
	indexHistory bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the search index from the mail archive",
	Long: `Scans the configured mail archive, extracts one record per pull
request, and builds the record store and vector index.

With --watch, the archive is rebuilt automatically whenever its files
change, until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "rebuild whenever the archive changes")
	indexCmd.Flags().IntVar(&indexWorkers, "workers", 0, "extraction workers (0 = one per CPU)")
	indexCmd.Flags().BoolVar(&indexHistory, "history", false, "show recent builds instead of building")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	if indexHistory {
		return outputIndexHistory(cmd)
	}

	opts := domain.IndexOptions{Workers: indexWorkers}

	if indexWatch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cmd.Println("Watching archive, press Ctrl-C to stop.")
		err := indexerService.Watch(ctx, opts)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("watch failed: %w", err)
		}
		cmd.Println("Stopped.")
		return nil
	}

	cmd.Println("Building index...")
	summary, err := indexerService.BuildIndex(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	outputIndexSummary(cmd, summary)
	return nil
}

func outputIndexSummary(cmd *cobra.Command, summary domain.IndexSummary) {
	cmd.Printf("Indexed %d messages into %d records", summary.MessagesSeen, summary.Records)
	if summary.Failed > 0 {
		cmd.Printf(" (%d failed)", summary.Failed)
	}
	cmd.Println()
	if summary.Vectors > 0 {
		cmd.Printf("Embedded %d full texts for semantic search.\n", summary.Vectors)
	} else {
		cmd.Println("No vectors built; search runs in exact-match mode.")
	}
}

func outputIndexHistory(cmd *cobra.Command) error {
	runs, err := indexerService.Runs(cmd.Context(), 10)
	if err != nil {
		return fmt.Errorf("failed to load build history: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No builds recorded yet.")
		return nil
	}

	cmd.Println("Recent builds:")
	for _, run := range runs {
		cmd.Printf("  %s  %d messages, %d records, %d vectors",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Summary.MessagesSeen, run.Summary.Records, run.Summary.Vectors)
		if run.Summary.Failed > 0 {
			cmd.Printf(", %d failed", run.Summary.Failed)
		}
		cmd.Printf("  (%s)\n", run.EndedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
	return nil
}
