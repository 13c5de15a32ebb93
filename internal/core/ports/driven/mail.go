package driven

import (
	"context"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

// MailSource streams raw messages out of an email archive.
// Backed by the mbox/maildir connector.
type MailSource interface {
	// Messages streams the archive's messages in walk order. Per-message
	// failures arrive on the error channel; both channels close when the
	// walk finishes or ctx is cancelled.
	Messages(ctx context.Context) (<-chan domain.RawMail, <-chan error)
}
