package driving

import (
	"context"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

// IndexerService builds and maintains the record index on behalf of
// external actors.
type IndexerService interface {
	// BuildIndex runs one full pass over the archive: extract, merge,
	// embed, persist.
	BuildIndex(ctx context.Context, opts domain.IndexOptions) (domain.IndexSummary, error)

	// Watch re-runs BuildIndex whenever the archive changes, until ctx
	// is cancelled.
	Watch(ctx context.Context, opts domain.IndexOptions) error

	// Runs returns the most recent completed builds, newest first.
	Runs(ctx context.Context, limit int) ([]domain.IndexRun, error)
}
