package tags

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driven"
)

// fakeEmbedder maps known texts to fixed vectors; unknown texts embed to the
// zero vector.
type fakeEmbedder struct {
	vectors    map[string][]float32
	batchCalls int
	err        error
}

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 0}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batchCalls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int { return 3 }

func (f *fakeEmbedder) ModelName() string { return "fake-embed" }

func (f *fakeEmbedder) Ping(context.Context) error { return nil }

func (f *fakeEmbedder) Close() error { return nil }

func TestEmbeddingClassifier_RanksBySimilarity(t *testing.T) {
	svc := &fakeEmbedder{vectors: map[string][]float32{
		"sql":                {1, 0, 0},
		"ui":                 {0, 1, 0},
		"docs":               {0, 0, 1},
		"database migration": {0.9, 0.1, 0},
	}}
	c := NewEmbeddingClassifier(svc,
		WithVocabulary([]string{"sql", "ui", "docs"}),
		WithTopK(2),
	)

	got, err := c.Classify(context.Background(), "database migration", nil, domain.Sections{})
	require.NoError(t, err)

	assert.Equal(t, []string{"sql", "ui"}, got)
}

func TestEmbeddingClassifier_VocabularyEmbeddedOnce(t *testing.T) {
	svc := &fakeEmbedder{vectors: map[string][]float32{}}
	c := NewEmbeddingClassifier(svc, WithVocabulary([]string{"sql", "ui"}))

	_, err := c.Classify(context.Background(), "first call", nil, domain.Sections{})
	require.NoError(t, err)
	_, err = c.Classify(context.Background(), "second call", nil, domain.Sections{})
	require.NoError(t, err)

	assert.Equal(t, 1, svc.batchCalls)
}

func TestEmbeddingClassifier_EmptyInput(t *testing.T) {
	svc := &fakeEmbedder{}
	c := NewEmbeddingClassifier(svc)

	got, err := c.Classify(context.Background(), "", nil, domain.Sections{})
	require.NoError(t, err)

	assert.Nil(t, got)
	assert.Zero(t, svc.batchCalls)
}

func TestEmbeddingClassifier_ServiceErrorPropagates(t *testing.T) {
	svc := &fakeEmbedder{err: errors.New("connection refused")}
	c := NewEmbeddingClassifier(svc)

	_, err := c.Classify(context.Background(), "anything", nil, domain.Sections{})
	assert.Error(t, err)
}

func TestEmbeddingClassifier_TopKBoundedByVocabulary(t *testing.T) {
	svc := &fakeEmbedder{}
	c := NewEmbeddingClassifier(svc, WithVocabulary([]string{"sql", "ui"}), WithTopK(10))

	got, err := c.Classify(context.Background(), "anything", nil, domain.Sections{})
	require.NoError(t, err)

	assert.Len(t, got, 2)
}

func TestDefaultVocabulary(t *testing.T) {
	vocab := DefaultVocabulary()

	assert.Len(t, vocab, 33)
	assert.Contains(t, vocab, "bug")
	assert.Contains(t, vocab, "payment_processing")

	// Mutating the copy must not touch the built-in set.
	vocab[0] = "changed"
	assert.Equal(t, "bug", DefaultVocabulary()[0])
}
