package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings, chat or images.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is the OpenAI cloud API (or a compatible endpoint).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama:
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
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// RAGSettings holds retrieval augmentation configuration.
// Consumed, not owned, by the retrieval core.
type RAGSettings struct {
	// Enabled toggles retrieval augmentation for chat turns.
	Enabled bool

	// Threshold is the minimum cosine similarity for a result to be
	// considered relevant. The 0.15 default is a starting point, not a
	// calibrated constant; tune it against the embedding model in use.
	Threshold float64

	// ContextCount is the maximum number of snippets per turn.
	ContextCount int

	// MaxContextTokens bounds the assembled context block, using the
	// 4-characters-per-token heuristic.
	MaxContextTokens int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible gateways).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
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

// LLMSettings holds chat model provider configuration.
type LLMSettings struct {
	// Provider is the chat service provider.
	Provider AIProvider

	// Model is the chat model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible gateways).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the chat provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ImageSettings holds image generation configuration.
type ImageSettings struct {
	// Model is the image model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key.
	APIKey string

	// OutputDir is where generated images are written.
	OutputDir string
}

// IsConfigured returns true if image generation is set up.
func (i ImageSettings) IsConfigured() bool {
	return i.APIKey != ""
}

// AppSettings holds all application settings.
type AppSettings struct {
	// RAG holds retrieval augmentation settings.
	RAG RAGSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds chat provider settings.
	LLM LLMSettings

	// Image holds image generation settings.
	Image ImageSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Provider credentials are left unconfigured; users supply them via
// `confab settings` or environment variables.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		RAG: RAGSettings{
			Enabled:          false,
			Threshold:        0.15,
			ContextCount:     3,
			MaxContextTokens: 2000,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    "text-embedding-3-small",
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    "gpt-4o-mini",
		},
		Image: ImageSettings{
			Model: "dall-e-3",
		},
	}
}

// AllLLMProviders returns providers that support chat operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderOllama,
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderOllama,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderOllama: "nomic-embed-text",
	}
}

// DefaultLLMModels returns default models for each chat provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderOllama:    "llama3.2",
	}
}
