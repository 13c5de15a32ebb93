// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

// AnswerReceived carries the answer to a submitted question back to the model.
type AnswerReceived struct {
	Answer domain.Answer
	Err    error
}

// HistoryLoaded carries the stored turns of a resumed conversation.
type HistoryLoaded struct {
	Turns []domain.ChatTurn
	Err   error
}
