package services

import (
	"fmt"
	"os"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driven"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage. The dots map onto TOML tables, so a
// hand-written [embedding] section reads back as embedding.* keys.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyMailDir        = "mail.dir"
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyEmbedBatchSize = "embedding.batch_size"
	keyEmbedRateLimit = "embedding.rate_limit"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyIndexDataDir   = "index.data_dir"
	keyIndexWorkers   = "index.workers"
	keyTagsMode       = "tags.mode"
	keyTagsTopK       = "tags.top_k"
	keyTagsVocabulary = "tags.vocabulary"
)

// Environment variables consulted for API keys when the config file has none.
const (
	envOpenAIKey    = "OPENAI_API_KEY"
	envAnthropicKey = "ANTHROPIC_API_KEY"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
// Unset keys fall back to defaults; API keys additionally fall back to the
// provider's environment variable so secrets can stay out of the file.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Mail: domain.MailSettings{
			Dir: s.configStore.GetString(keyMailDir),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:  s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:     s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:   s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:    s.configStore.GetString(keyEmbedAPIKey),
			BatchSize: s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			RateLimit: s.configStore.GetFloat(keyEmbedRateLimit),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Index: domain.IndexSettings{
			DataDir: s.configStore.GetString(keyIndexDataDir),
			Workers: s.configStore.GetInt(keyIndexWorkers),
		},
		Tags: domain.TagSettings{
			Mode:       s.getTagMode(defaults.Tags.Mode),
			TopK:       s.getInt(keyTagsTopK, defaults.Tags.TopK),
			Vocabulary: s.configStore.GetStringSlice(keyTagsVocabulary),
		},
	}

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = envAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = envAPIKey(settings.LLM.Provider)
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save mail settings
	if err := s.configStore.Set(keyMailDir, settings.Mail.Dir); err != nil {
		return fmt.Errorf("save mail dir: %w", err)
	}

	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyEmbedBatchSize, settings.Embedding.BatchSize); err != nil {
		return fmt.Errorf("save embedding batch_size: %w", err)
	}
	if settings.Embedding.RateLimit > 0 {
		if err := s.configStore.Set(keyEmbedRateLimit, settings.Embedding.RateLimit); err != nil {
			return fmt.Errorf("save embedding rate_limit: %w", err)
		}
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save index settings
	if settings.Index.DataDir != "" {
		if err := s.configStore.Set(keyIndexDataDir, settings.Index.DataDir); err != nil {
			return fmt.Errorf("save index data_dir: %w", err)
		}
	}
	if settings.Index.Workers > 0 {
		if err := s.configStore.Set(keyIndexWorkers, settings.Index.Workers); err != nil {
			return fmt.Errorf("save index workers: %w", err)
		}
	}

	// Save tag settings
	if err := s.configStore.Set(keyTagsMode, settings.Tags.Mode.String()); err != nil {
		return fmt.Errorf("save tags mode: %w", err)
	}
	if err := s.configStore.Set(keyTagsTopK, settings.Tags.TopK); err != nil {
		return fmt.Errorf("save tags top_k: %w", err)
	}
	if len(settings.Tags.Vocabulary) > 0 {
		if err := s.configStore.Set(keyTagsVocabulary, settings.Tags.Vocabulary); err != nil {
			return fmt.Errorf("save tags vocabulary: %w", err)
		}
	}

	return nil
}

// Validate checks if current settings can run an index build.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Mail.Dir == "" {
		return fmt.Errorf("mail archive directory is not set (mail.dir)")
	}

	if !settings.Tags.Mode.IsValid() {
		return fmt.Errorf("invalid tag mode: %s", settings.Tags.Mode)
	}

	// Semantic retrieval always needs embeddings
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q requires an API key (set embedding.api_key or %s)",
			settings.Embedding.Provider, envOpenAIKey)
	}

	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("llm provider %q requires an API key (set llm.api_key or the provider's environment variable)",
			settings.LLM.Provider)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Path returns the backing config file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getTagMode(defaultVal domain.TagMode) domain.TagMode {
	val := s.configStore.GetString(keyTagsMode)
	if val == "" {
		return defaultVal
	}
	mode := domain.TagMode(val)
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

// envAPIKey returns the environment API key for cloud providers, or empty.
func envAPIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return os.Getenv(envOpenAIKey)
	case domain.AIProviderAnthropic:
		return os.Getenv(envAnthropicKey)
	default:
		return ""
	}
}
