package mcp

import (
	"context"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driving"
)

// RecordReader is the read surface the record resources need. The SQLite
// record store satisfies it.
type RecordReader interface {
	All(ctx context.Context) ([]domain.Record, error)
	Get(ctx context.Context, id string) (*domain.Record, error)
}

// ConversationReader is the read surface the transcript resource needs.
// The SQLite history store satisfies it.
type ConversationReader interface {
	Turns(ctx context.Context, conversationID string) ([]domain.ChatTurn, error)
}

// Ports aggregates everything the MCP server serves from.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query serves the search and ask tools.
	Query driving.QueryService

	// Records backs the record resources.
	Records RecordReader

	// History backs the conversation transcript resource.
	History ConversationReader
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Records and History are optional; without them the resources
	// serve empty content.
	return nil
}
