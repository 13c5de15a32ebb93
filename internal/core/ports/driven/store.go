package driven

import (
	"context"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

// RecordStore persists canonical PR records.
// Backed by SQLite for metadata storage.
type RecordStore interface {
	// ReplaceAll atomically swaps the whole record set. Index builds are
	// full rebuilds, so the previous set goes away in the same
	// transaction.
	ReplaceAll(ctx context.Context, records []domain.Record) error

	// All returns every stored record in storage order.
	All(ctx context.Context) ([]domain.Record, error)

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.Record, error)
}

// HistoryStore persists chat conversations.
// Backed by SQLite, alongside the records.
type HistoryStore interface {
	// Append stores one turn at the end of the conversation, creating
	// the conversation on first use.
	Append(ctx context.Context, conversationID string, turn domain.ChatTurn) error

	// Turns returns a conversation's turns in order.
	Turns(ctx context.Context, conversationID string) ([]domain.ChatTurn, error)

	// Conversations lists known conversations, newest first.
	Conversations(ctx context.Context) ([]domain.Conversation, error)
}

// IndexRunStore records completed index builds.
// Best-effort bookkeeping: callers ignore its failures.
type IndexRunStore interface {
	// RecordRun appends one completed build.
	RecordRun(ctx context.Context, run domain.IndexRun) error

	// Runs returns the most recent runs, newest first, at most limit.
	Runs(ctx context.Context, limit int) ([]domain.IndexRun, error)

	// PruneRuns drops all but the most recent keep runs.
	PruneRuns(ctx context.Context, keep int) error
}
