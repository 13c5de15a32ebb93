package driving

import (
	"context"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

// QueryService answers questions over the indexed records.
type QueryService interface {
	// Search returns the top-ranked records for a free-text query.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// Ask retrieves the k best-matching records and has the LLM answer
	// from them alone.
	Ask(ctx context.Context, question string, k int) (domain.Answer, error)

	// Chat is Ask with conversation memory.
	Chat(ctx context.Context, conversationID, question string) (domain.Answer, error)
}
