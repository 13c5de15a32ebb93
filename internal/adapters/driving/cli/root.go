// Package cli implements the cobra command tree. Commands delegate to the
// driving-port services wired in by the composition root; a command whose
// service is nil fails with a clear message instead of panicking.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driving/mcp"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driving"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/logger"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/tags"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Services wired by SetServices before Execute.
var (
	indexerService  driving.IndexerService
	queryService    driving.QueryService
	settingsService driving.SettingsService
	tagClassifier   tags.Classifier
	recordReader    mcp.RecordReader
	historyReader   mcp.ConversationReader
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "prmail",
	Short: "Search and question an archive of pull-request emails",
	Long: `prmail indexes archived GitHub notification emails and answers
questions about them.

Point it at a directory of mbox archives, build the index, then search it
by PR number, tag, ticket, commit or free text, or let a configured LLM
answer questions grounded in the matching emails.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
			logger.SetOutput(cmd.ErrOrStderr())
		}
	},
}

// Services groups the driving ports the commands need. Records and
// History are optional; only the MCP resources use them.
type Services struct {
	Indexer  driving.IndexerService
	Query    driving.QueryService
	Settings driving.SettingsService
	Tags     tags.Classifier
	Records  mcp.RecordReader
	History  mcp.ConversationReader
}

// SetServices wires service implementations into the command tree.
func SetServices(s Services) {
	indexerService = s.Indexer
	queryService = s.Query
	settingsService = s.Settings
	tagClassifier = s.Tags
	recordReader = s.Records
	historyReader = s.History
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
