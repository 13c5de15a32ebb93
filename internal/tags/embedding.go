package tags

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driven"
)

// Ensure EmbeddingClassifier implements the interface.
var _ Classifier = (*EmbeddingClassifier)(nil)

// defaultVocabulary is the closed tag set the embedding classifier ranks
// against. Installations can override it through the [tags] config section.
var defaultVocabulary = []string{
	"bug", "fix", "feature", "refactor", "docs", "performance", "security",
	"breaking_change", "test", "dependency", "ui", "api", "backend",
	"authentication", "sql", "middleware", "logging", "monitoring",
	"exceptions_handling", "billing", "subscriptions", "notifications",
	"search", "caching", "load_balancing", "docker", "cron_jobs",
	"data_migration", "cryptography", "password_management",
	"order_lifecycle", "shopping_cart", "payment_processing",
}

const defaultTopK = 5

// DefaultVocabulary returns a copy of the built-in tag vocabulary.
func DefaultVocabulary() []string {
	return append([]string(nil), defaultVocabulary...)
}

// Option configures an EmbeddingClassifier.
type Option func(*EmbeddingClassifier)

// WithTopK sets how many vocabulary tags are returned per input.
func WithTopK(k int) Option {
	return func(c *EmbeddingClassifier) {
		if k > 0 {
			c.topK = k
		}
	}
}

// WithVocabulary replaces the built-in vocabulary.
func WithVocabulary(vocab []string) Option {
	return func(c *EmbeddingClassifier) {
		if len(vocab) > 0 {
			c.vocab = append([]string(nil), vocab...)
		}
	}
}

// EmbeddingClassifier ranks the vocabulary by cosine similarity to the
// input text. Vocabulary vectors are embedded once, on first use, and
// cached for the classifier's lifetime.
type EmbeddingClassifier struct {
	svc   driven.EmbeddingService
	vocab []string
	topK  int

	mu      sync.Mutex
	vectors [][]float32
}

// NewEmbeddingClassifier creates a classifier backed by the given embedding
// service.
func NewEmbeddingClassifier(svc driven.EmbeddingService, opts ...Option) *EmbeddingClassifier {
	c := &EmbeddingClassifier{
		svc:   svc,
		vocab: DefaultVocabulary(),
		topK:  defaultTopK,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify embeds the combined input text and returns the top-K most
// similar vocabulary tags, best first.
func (c *EmbeddingClassifier) Classify(ctx context.Context, title string, files []string, sections domain.Sections) ([]string, error) {
	text := classifyText(title, files, sections)
	if text == "" {
		return nil, nil
	}

	vectors, err := c.vocabVectors(ctx)
	if err != nil {
		return nil, fmt.Errorf("embedding vocabulary: %w", err)
	}

	query, err := c.svc.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding input: %w", err)
	}

	scores := make([]float64, len(vectors))
	for i, v := range vectors {
		scores[i] = cosine(query, v)
	}

	order := make([]int, len(vectors))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	k := c.topK
	if k > len(order) {
		k = len(order)
	}
	out := make([]string, 0, k)
	for _, idx := range order[:k] {
		out = append(out, c.vocab[idx])
	}
	return out, nil
}

// vocabVectors embeds the vocabulary on first use.
func (c *EmbeddingClassifier) vocabVectors(ctx context.Context) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vectors != nil {
		return c.vectors, nil
	}

	vectors, err := c.svc.EmbedBatch(ctx, c.vocab)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(c.vocab) {
		return nil, fmt.Errorf("got %d vectors for %d vocabulary tags", len(vectors), len(c.vocab))
	}
	c.vectors = vectors
	return c.vectors, nil
}

// classifyText combines the classifier inputs into one embeddable string.
func classifyText(title string, files []string, sections domain.Sections) string {
	parts := make([]string, 0, 3)
	if title != "" {
		parts = append(parts, title)
	}
	if len(files) > 0 {
		parts = append(parts, strings.Join(files, " "))
	}
	if text := sectionText(sections); text != "" {
		parts = append(parts, text)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// cosine is the cosine similarity of two vectors; zero when either side has
// no magnitude.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
