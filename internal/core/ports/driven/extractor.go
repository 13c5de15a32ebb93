package driven

import (
	"context"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

// Extractor turns one raw message into one normalized record.
// Implementations must be safe for concurrent use: the index build runs
// extraction across a worker pool.
type Extractor interface {
	// Extract builds the record for one raw message.
	Extract(ctx context.Context, raw domain.RawMail) (domain.Record, error)
}
