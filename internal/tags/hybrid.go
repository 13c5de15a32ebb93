package tags

import (
	"context"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/logger"
)

// Ensure HybridClassifier implements the interface.
var _ Classifier = (*HybridClassifier)(nil)

// HybridClassifier unions rule tags with embedding tags. When the embedding
// service fails, the rule tags still stand and the failure is logged, not
// returned.
type HybridClassifier struct {
	rule *RuleClassifier
	emb  *EmbeddingClassifier
}

// NewHybridClassifier combines a rule classifier with an optional embedding
// classifier. emb may be nil.
func NewHybridClassifier(rule *RuleClassifier, emb *EmbeddingClassifier) *HybridClassifier {
	return &HybridClassifier{rule: rule, emb: emb}
}

// Classify returns the sorted, deduplicated union of both strategies.
func (c *HybridClassifier) Classify(ctx context.Context, title string, files []string, sections domain.Sections) ([]string, error) {
	ruleTags, _ := c.rule.Classify(ctx, title, files, sections)

	set := make(map[string]struct{}, len(ruleTags))
	for _, tag := range ruleTags {
		set[tag] = struct{}{}
	}

	if c.emb != nil {
		embTags, err := c.emb.Classify(ctx, title, files, sections)
		if err != nil {
			logger.Warn("embedding classifier unavailable, keeping rule tags: %v", err)
		}
		for _, tag := range embTags {
			set[tag] = struct{}{}
		}
	}

	return sortedTags(set), nil
}
