package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askContext int

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Ask the LLM a question about the archive",
	Long: `Retrieves the records that best match the question and has the
configured LLM answer from them alone.

Requires an LLM provider; run 'prmail config check' to verify one is
reachable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askContext, "limit", "k", 5, "records retrieved as context")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	question := strings.Join(args, " ")

	answer, err := queryService.Ask(cmd.Context(), question, askContext)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i := range answer.Sources {
			rec := &answer.Sources[i].Record
			cmd.Printf("  [%d] %s\n", i+1, rec.Subject)
		}
	}
	return nil
}
