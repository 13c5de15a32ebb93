package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

var (
	queryLimit    int
	queryJSON     bool
	querySemantic bool
)

var queryCmd = &cobra.Command{
	Use:   "query [terms...]",
	Short: "Search the indexed records",
	Long: `Searches the indexed records by PR number, tag, ticket, commit SHA,
repo, file or free text. Records hit by the exact matcher rank first;
vector similarity fills the remaining slots when an embedding provider is
configured.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "k", 10, "maximum number of results")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	queryCmd.Flags().BoolVar(&querySemantic, "semantic", false, "rank purely by vector similarity")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	query := strings.Join(args, " ")
	opts := domain.SearchOptions{
		Limit:        queryLimit,
		SemanticOnly: querySemantic,
	}

	results, err := queryService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputResultsJSON(cmd, results)
	}

	outputResultsTable(cmd, results)
	return nil
}

func outputResultsJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultsTable(cmd *cobra.Command, results []domain.SearchResult) {
	if len(results) == 0 {
		cmd.Println("No matching records.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		rec := &results[i].Record

		title := rec.PRTitle
		if title == "" {
			title = rec.Subject
		}

		cmd.Printf("  [%d] %s (%.2f %s)\n", i+1, title, results[i].Score, results[i].Origin)
		if len(rec.Repos) > 0 || len(rec.PRNumbers) > 0 {
			cmd.Printf("      %s\n", recordReference(rec))
		}
		if len(rec.Tags) > 0 {
			cmd.Printf("      Tags: %s\n", strings.Join(rec.Tags, ", "))
		}
		cmd.Println()
	}
}

// recordReference renders "repo #1 #2" style provenance for one record.
func recordReference(rec *domain.Record) string {
	parts := make([]string, 0, 1+len(rec.PRNumbers))
	parts = append(parts, rec.Repos...)
	for _, n := range rec.PRNumbers {
		parts = append(parts, fmt.Sprintf("#%d", n))
	}
	return strings.Join(parts, " ")
}
