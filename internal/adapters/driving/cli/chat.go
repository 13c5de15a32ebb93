package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driving/tui"
)

var chatConversation string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the LLM about the archive",
	Long: `Opens an interactive chat grounded in the indexed records. Every
question retrieves matching emails as context, and the conversation is
persisted so it can be resumed later.

Controls:
  Enter  - Send
  /quit  - Exit (also Esc or Ctrl-C)

Use --conversation to resume a previous conversation by ID; without it a
new conversation is started.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatConversation, "conversation", "", "conversation ID to resume")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Recover with a stack trace: a panic inside bubbletea otherwise
	// leaves the terminal in the alternate screen.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if queryService == nil {
		return errors.New("query service not configured")
	}

	conversationID := chatConversation
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	app := tui.NewApp(queryService, historyReader, conversationID)
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	cmd.Printf("Conversation %s saved. Resume with: prmail chat --conversation %s\n",
		conversationID, conversationID)
	return nil
}
