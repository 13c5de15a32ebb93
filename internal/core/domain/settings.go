package domain

const unknownDescription = "Unknown"

// TagMode defines which classifier strategies run during indexing.
type TagMode string

// Available tag modes.
const (
	// TagModeRules uses only deterministic rule matching.
	TagModeRules TagMode = "rules"

	// TagModeEmbedding uses only embedding similarity ranking.
	TagModeEmbedding TagMode = "embedding"

	// TagModeHybrid unions rule tags with embedding tags.
	TagModeHybrid TagMode = "hybrid"
)

// IsValid returns true if the tag mode is recognised.
func (m TagMode) IsValid() bool {
	switch m {
	case TagModeRules, TagModeEmbedding, TagModeHybrid:
		return true
	default:
		return false
	}
}

// RequiresEmbedding returns true if this mode needs an embedding provider.
func (m TagMode) RequiresEmbedding() bool {
	return m == TagModeEmbedding || m == TagModeHybrid
}

// String returns the string representation.
func (m TagMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m TagMode) Description() string {
	switch m {
	case TagModeRules:
		return "Rules (deterministic keyword matching)"
	case TagModeEmbedding:
		return "Embedding (vocabulary similarity ranking)"
	case TagModeHybrid:
		return "Hybrid (rules + embedding union)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// MailSettings holds the mail archive location.
type MailSettings struct {
	// Dir is the directory scanned for mbox archive files.
	Dir string
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// BatchSize is how many texts are embedded per request.
	BatchSize int

	// RateLimit caps embedding requests per second. Zero means no cap.
	RateLimit float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// IndexSettings holds index build configuration.
type IndexSettings struct {
	// DataDir overrides the default data directory when set.
	DataDir string

	// Workers is the extraction worker count. Zero means one per CPU.
	Workers int
}

// TagSettings holds tag classifier configuration.
type TagSettings struct {
	// Mode selects the classifier strategies.
	Mode TagMode

	// TopK is how many vocabulary tags the embedding classifier returns.
	TopK int

	// Vocabulary replaces the built-in tag vocabulary when non-empty.
	Vocabulary []string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Mail holds archive location settings.
	Mail MailSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Index holds index build settings.
	Index IndexSettings

	// Tags holds tag classifier settings.
	Tags TagSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Both AI providers default to a local Ollama instance so indexing and
// question answering work without any cloud credentials.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Mail: MailSettings{},
		Embedding: EmbeddingSettings{
			Provider:  AIProviderOllama,
			Model:     "nomic-embed-text",
			BatchSize: 32,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    "llama3.2",
		},
		Index: IndexSettings{},
		Tags: TagSettings{
			Mode: TagModeHybrid,
			TopK: 5,
		},
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
