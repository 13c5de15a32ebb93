// Package tui provides the interactive chat terminal interface for prmail.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driving/tui/components/input"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driving/tui/components/status"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driving/tui/components/transcript"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driving/tui/keymap"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driving/tui/messages"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driving/tui/styles"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driving"
)

// HistoryReader loads the stored turns of a resumed conversation.
type HistoryReader interface {
	Turns(ctx context.Context, conversationID string) ([]domain.ChatTurn, error)
}

// App is the chat TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// query answers questions via the core query service.
	query driving.QueryService

	// history loads prior turns when resuming a conversation. Optional.
	history HistoryReader

	// conversationID scopes the chat memory.
	conversationID string

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings.
	keymap *keymap.KeyMap

	// input is the question prompt component.
	input *input.PromptInput

	// transcript is the conversation display component.
	transcript *transcript.Transcript

	// statusbar is the status bar component.
	statusbar *status.Bar

	// spinner animates while an answer is pending.
	spinner spinner.Model

	// thinking is true while a question is in flight.
	thinking bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat TUI. A nil history means resumed
// conversations start with an empty transcript.
func NewApp(query driving.QueryService, history HistoryReader, conversationID string) *App {
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Warning

	return &App{
		query:          query,
		history:        history,
		conversationID: conversationID,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		input:          input.NewPromptInput(s),
		transcript:     transcript.New(s),
		statusbar:      status.NewBar(s, km),
		spinner:        sp,
	}
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("prmail chat"),
		a.input.Init(),
		a.spinner.Tick,
	}
	if a.history != nil && a.conversationID != "" {
		cmds = append(cmds, a.loadHistory())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.input.SetWidth(msg.Width)
		a.statusbar.SetWidth(msg.Width)
		// Header, separator, spinner row, prompt and status bar take seven rows
		a.transcript.SetDimensions(msg.Width, msg.Height-7)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.AnswerReceived:
		return a.handleAnswerReceived(msg)

	case messages.HistoryLoaded:
		return a.handleHistoryLoaded(msg)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKeyMsg routes key presses. Letters fall through to the prompt
// input, so only non-text keys are bound.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(key, a.keymap.ScrollUp):
		a.transcript.ScrollUp()
		return a, nil

	case keymap.Matches(key, a.keymap.ScrollDown):
		a.transcript.ScrollDown()
		return a, nil

	case keymap.Matches(key, a.keymap.Send):
		return a, a.submit()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit sends the typed question to the query service.
func (a *App) submit() tea.Cmd {
	if a.thinking {
		return nil
	}

	question := strings.TrimSpace(a.input.Value())
	if question == "" {
		return nil
	}
	if question == "/quit" {
		return tea.Quit
	}

	a.input.Reset()
	a.transcript.Append(transcript.Entry{Role: domain.RoleUser, Text: question})
	a.thinking = true
	a.statusbar.SetState(status.StateThinking)

	return a.performChat(question)
}

// performChat asks the query service as a Bubbletea command.
func (a *App) performChat(question string) tea.Cmd {
	return func() tea.Msg {
		if a.query == nil {
			return messages.AnswerReceived{Err: ErrMissingQueryService}
		}

		answer, err := a.query.Chat(a.ctx, a.conversationID, question)
		if err != nil {
			return messages.AnswerReceived{Err: err}
		}
		return messages.AnswerReceived{Answer: answer}
	}
}

// loadHistory fetches stored turns as a Bubbletea command.
func (a *App) loadHistory() tea.Cmd {
	return func() tea.Msg {
		turns, err := a.history.Turns(a.ctx, a.conversationID)
		if err != nil {
			return messages.HistoryLoaded{Err: err}
		}
		return messages.HistoryLoaded{Turns: turns}
	}
}

// handleAnswerReceived appends the answer, or the failure, to the transcript.
func (a *App) handleAnswerReceived(msg messages.AnswerReceived) (tea.Model, tea.Cmd) {
	a.thinking = false

	if msg.Err != nil {
		a.err = msg.Err
		a.transcript.Append(transcript.Entry{Role: transcript.RoleError, Text: msg.Err.Error()})
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(msg.Err.Error())
		return a, nil
	}

	sources := make([]string, 0, len(msg.Answer.Sources))
	for i := range msg.Answer.Sources {
		sources = append(sources, msg.Answer.Sources[i].Record.Subject)
	}

	a.transcript.Append(transcript.Entry{
		Role:    domain.RoleAssistant,
		Text:    msg.Answer.Text,
		Sources: sources,
	})
	a.statusbar.SetState(status.StateReady)
	a.statusbar.SetMessage("")
	a.statusbar.SetTurnCount(a.transcript.Count())
	return a, nil
}

// handleHistoryLoaded fills the transcript with the stored turns.
func (a *App) handleHistoryLoaded(msg messages.HistoryLoaded) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.err = msg.Err
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(fmt.Sprintf("history: %s", msg.Err))
		return a, nil
	}

	// History loads async; keep any turns typed before it landed.
	if len(msg.Turns) == 0 || !a.transcript.IsEmpty() {
		return a, nil
	}

	entries := make([]transcript.Entry, 0, len(msg.Turns))
	for _, turn := range msg.Turns {
		entries = append(entries, transcript.Entry{Role: turn.Role, Text: turn.Content})
	}
	a.transcript.SetEntries(entries)
	a.statusbar.SetTurnCount(a.transcript.Count())
	return a, nil
}

// View implements tea.Model.
// It renders the chat screen as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	header := a.styles.Title.Render("prmail chat") + a.styles.Muted.Render("  "+a.conversationID)

	gap := ""
	if a.thinking {
		gap = a.spinner.View() + a.styles.Warning.Render(" Thinking...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		a.transcript.View(),
		gap,
		a.input.View(),
		a.statusbar.View(),
	)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ConversationID returns the conversation this chat is scoped to.
func (a *App) ConversationID() string {
	return a.conversationID
}

// Thinking returns whether a question is in flight.
func (a *App) Thinking() bool {
	return a.thinking
}

// Entries returns the current transcript entries.
func (a *App) Entries() []transcript.Entry {
	return a.transcript.Entries()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.input.SetWidth(width)
	a.statusbar.SetWidth(width)
	a.transcript.SetDimensions(width, height-7)
}
