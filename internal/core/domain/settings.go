package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderNone disables the capability.
	AIProviderNone AIProvider = ""

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI API or any compatible endpoint.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised and enabled.
func (p AIProvider) IsValid() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// RequiresAPIKey returns true if the provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderNone:
		return "Disabled"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible API"
	default:
		return unknownDescription
	}
}

// StorageBackend selects where analyses are persisted.
type StorageBackend string

// Available storage backends.
const (
	StorageSQLite StorageBackend = "sqlite"
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMemory
}

// CacheBackend selects the analysis result cache.
type CacheBackend string

// Available cache backends.
const (
	CacheNone   CacheBackend = "none"
	CacheMemory CacheBackend = "memory"
	CacheRedis  CacheBackend = "redis"
)

// IsValid returns true if the backend is recognised.
func (b CacheBackend) IsValid() bool {
	switch b {
	case CacheNone, CacheMemory, CacheRedis:
		return true
	default:
		return false
	}
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	Backend StorageBackend

	// DataDir holds the sqlite database. Empty means the clauseguard home.
	DataDir string
}

// ScoringSettings holds risk scoring configuration.
type ScoringSettings struct {
	// Scorer is the primary scorer name ("keyword" or "llm").
	// The keyword scorer is always the fallback.
	Scorer string

	// Workers bounds parallel per-clause scoring. Zero means one per CPU.
	Workers int

	// RulesFile optionally replaces the built-in keyword rules.
	RulesFile string
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// Timeout bounds a single classification request.
	Timeout time.Duration

	// RequestsPerSecond throttles classification calls. Zero disables throttling.
	RequestsPerSecond float64

	// APIKey authenticates hosted providers. It is read from the
	// environment and never written to the config file.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Model == "" {
		return false
	}
	return !l.Provider.RequiresAPIKey() || l.APIKey != ""
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// MinSimilarity is the cosine similarity needed to attach a template.
	MinSimilarity float64

	// APIKey authenticates hosted providers. Not persisted.
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Model == "" {
		return false
	}
	return !e.Provider.RequiresAPIKey() || e.APIKey != ""
}

// CacheSettings holds result cache configuration.
type CacheSettings struct {
	Backend CacheBackend

	// RedisAddr is host:port of the redis server.
	RedisAddr string

	// RedisDB selects the redis logical database.
	RedisDB int

	// TTL bounds how long cached analyses live.
	TTL time.Duration
}

// ServerSettings holds HTTP API configuration.
type ServerSettings struct {
	// Addr is the listen address for `clauseguard serve`.
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Storage   StorageSettings
	Scoring   ScoringSettings
	LLM       LLMSettings
	Embedding EmbeddingSettings
	Cache     CacheSettings
	Server    ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI features are left unconfigured; keyword scoring needs no setup.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{Backend: StorageSQLite},
		Scoring: ScoringSettings{Scorer: "keyword"},
		LLM: LLMSettings{
			Timeout:           60 * time.Second,
			RequestsPerSecond: 2,
		},
		Embedding: EmbeddingSettings{MinSimilarity: 0.75},
		Cache: CacheSettings{
			Backend:   CacheNone,
			RedisAddr: "localhost:6379",
			TTL:       24 * time.Hour,
		},
		Server: ServerSettings{Addr: ":8080"},
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// ScoringPipeline is the ordered scorer chain with per-scorer configuration.
// Uses generic map-based config so new scorers can be added without
// modifying this struct.
type ScoringPipeline struct {
	// Scorers is the ordered list of scorer names; later entries are fallbacks.
	Scorers []string

	// ScorerConfigs holds per-scorer configuration keyed by scorer name.
	ScorerConfigs map[string]map[string]any
}

// GetScorerConfig returns config for a specific scorer, or nil if not set.
func (c *ScoringPipeline) GetScorerConfig(name string) map[string]any {
	if c.ScorerConfigs == nil {
		return nil
	}
	return c.ScorerConfigs[name]
}

// PipelineFor builds the scorer chain for the configured primary scorer.
// The keyword scorer always terminates the chain.
func (s ScoringSettings) PipelineFor() ScoringPipeline {
	p := ScoringPipeline{ScorerConfigs: map[string]map[string]any{}}
	if s.Scorer != "" && s.Scorer != "keyword" {
		p.Scorers = append(p.Scorers, s.Scorer)
	}
	p.Scorers = append(p.Scorers, "keyword")
	return p
}
