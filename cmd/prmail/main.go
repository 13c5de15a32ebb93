// Command prmail indexes archived GitHub notification emails and answers
// questions about them. This is the composition root: it builds the driven
// adapters from the stored settings, wires the core services, and hands
// the command tree to cobra.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driven/ai"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driven/config/file"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driven/storage/sqlite"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driven/vector/flat"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driving/cli"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/connectors/mbox"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driven"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/services"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/extract"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/tags"
)

// vectorFile sits next to the SQLite database in the data directory.
const vectorFile = "vectors.gob"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore(settings.Index.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	vectors := flat.New()
	vectorPath := filepath.Join(filepath.Dir(store.Path()), vectorFile)
	if err := vectors.Load(vectorPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: vector index unreadable, starting empty: %v\n", err)
	}

	// The AI services are optional: without them indexing skips embeddings
	// and the query commands report what is missing.
	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: embeddings disabled: %v\n", err)
	}
	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: LLM disabled: %v\n", err)
	}

	classifier := buildClassifier(settings, embedder)

	indexService := services.NewIndexService(
		mbox.New(settings.Mail.Dir),
		extract.New(classifier),
		store.RecordStore(),
		vectors,
		embedder,
		store.RunStore(),
		services.IndexConfig{
			ArchiveDir: settings.Mail.Dir,
			VectorPath: vectorPath,
			Workers:    settings.Index.Workers,
			BatchSize:  settings.Embedding.BatchSize,
			RateLimit:  settings.Embedding.RateLimit,
		},
	)

	queryService := services.NewQueryService(
		store.RecordStore(),
		vectors,
		embedder,
		llm,
		store.HistoryStore(),
	)

	cli.SetServices(cli.Services{
		Indexer:  indexService,
		Query:    queryService,
		Settings: settingsService,
		Tags:     classifier,
		Records:  store.RecordStore(),
		History:  store.HistoryStore(),
	})

	return cli.Execute()
}

// buildClassifier assembles the tag classifier the settings ask for,
// falling back to rules alone when no embedder is available.
func buildClassifier(settings *domain.AppSettings, embedder driven.EmbeddingService) tags.Classifier {
	rules := tags.NewRuleClassifier()
	if embedder == nil || !settings.Tags.Mode.RequiresEmbedding() {
		return rules
	}

	opts := []tags.Option{tags.WithTopK(settings.Tags.TopK)}
	if len(settings.Tags.Vocabulary) > 0 {
		opts = append(opts, tags.WithVocabulary(settings.Tags.Vocabulary))
	}
	embedding := tags.NewEmbeddingClassifier(embedder, opts...)

	if settings.Tags.Mode == domain.TagModeEmbedding {
		return embedding
	}
	return tags.NewHybridClassifier(rules, embedding)
}
