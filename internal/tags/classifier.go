// Package tags derives topical labels for mail records from a closed label
// vocabulary. Two strategies exist: deterministic rule matching over the
// title, flattened file segments and section content, and embedding
// similarity ranking against the vocabulary. The hybrid classifier combines
// both and keeps working on rules alone when the embedding service is
// unreachable.
package tags

import (
	"context"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
)

// Classifier derives tags from one record's worth of extracted content.
type Classifier interface {
	// Classify returns the tags for the given title, flattened file
	// segments and body sections.
	Classify(ctx context.Context, title string, files []string, sections domain.Sections) ([]string, error)
}
