// Package config loads EU-Lens settings from .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/eulens/eulens/internal/core/domain"
)

// EnvFiles are loaded in order; earlier files and the real environment win
var EnvFiles = []string{".env.local", ".env"}

// Defaults
const (
	DefaultEmbeddingModel = "text-embedding-ada-002"
	DefaultLLMModel       = "gpt-4-turbo-preview"
	DefaultRegistryPath   = "data/document-registry.json"
	DefaultCatalogPath    = "documents.yaml"
	DefaultPineconeIndex  = "eu-lens"
	DefaultQdrantURL      = "http://localhost:6333"
	DefaultPort           = 8080
)

// Config is the complete process configuration
type Config struct {
	AI domain.AISettings

	IndexProvider domain.VectorIndexProvider
	Pinecone      PineconeConfig
	Qdrant        QdrantConfig

	DatabaseURL     string
	RegistryBackend domain.RegistryBackend
	RegistryPath    string
	RedisURL        string

	// IngestRateLimit is provider calls per second during ingestion; 0 disables pacing
	IngestRateLimit float64
	CatalogPath     string

	TopK               int
	RelevanceThreshold float64

	Port           int
	AuthJWTSecret  string
	CORSOrigins    []string
	RequestTimeout time.Duration

	// Debug switches the default logger to debug level
	Debug bool
}

// PineconeConfig holds Pinecone connection settings
type PineconeConfig struct {
	APIKey      string
	Environment string
	Index       string
	Host        string
	Namespace   string
}

// QdrantConfig holds Qdrant connection settings
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

// Load reads the env files that exist, then builds Config from the environment
func Load() (*Config, error) {
	if err := loadEnvFiles(EnvFiles...); err != nil {
		return nil, err
	}
	return FromEnv(), nil
}

// loadEnvFiles loads each existing file without overriding set variables
func loadEnvFiles(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv builds Config from environment variables only
func FromEnv() *Config {
	openAIKey := getEnv("OPENAI_API_KEY", "")
	openAIBase := getEnv("OPENAI_BASE_URL", "")

	llmProvider := domain.AIProvider(getEnv("LLM_PROVIDER", string(domain.AIProviderOpenAI)))
	llm := domain.LLMSettings{
		Provider:  llmProvider,
		Model:     getEnv("LLM_MODEL", ""),
		MaxTokens: getEnvInt("LLM_MAX_TOKENS", 0),
	}
	switch llmProvider {
	case domain.AIProviderAnthropic:
		llm.APIKey = getEnv("ANTHROPIC_API_KEY", "")
		llm.BaseURL = getEnv("ANTHROPIC_BASE_URL", "")
	default:
		llm.APIKey = openAIKey
		llm.BaseURL = openAIBase
		if llm.Model == "" {
			llm.Model = DefaultLLMModel
		}
	}

	return &Config{
		AI: domain.AISettings{
			Embedding: domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				Model:    getEnv("EMBEDDING_MODEL", DefaultEmbeddingModel),
				APIKey:   openAIKey,
				BaseURL:  openAIBase,
			},
			LLM: llm,
		},
		IndexProvider: domain.VectorIndexProvider(getEnv("VECTOR_INDEX_PROVIDER", string(domain.VectorIndexPinecone))),
		Pinecone: PineconeConfig{
			APIKey:      getEnv("PINECONE_API_KEY", ""),
			Environment: getEnv("PINECONE_ENVIRONMENT", ""),
			Index:       getEnv("PINECONE_INDEX", DefaultPineconeIndex),
			Host:        getEnv("PINECONE_HOST", ""),
			Namespace:   getEnv("PINECONE_NAMESPACE", ""),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", DefaultQdrantURL),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", DefaultPineconeIndex),
		},
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RegistryBackend:    domain.RegistryBackend(getEnv("REGISTRY_BACKEND", string(domain.RegistryBackendFile))),
		RegistryPath:       getEnv("REGISTRY_PATH", DefaultRegistryPath),
		RedisURL:           getEnv("REDIS_URL", ""),
		IngestRateLimit:    getEnvFloat("INGEST_RATE_LIMIT", 0),
		CatalogPath:        getEnv("CATALOG_PATH", DefaultCatalogPath),
		TopK:               getEnvInt("RAG_TOP_K", domain.DefaultTopK),
		RelevanceThreshold: getEnvFloat("RAG_RELEVANCE_THRESHOLD", domain.DefaultRelevanceThreshold),
		Port:               getEnvInt("PORT", DefaultPort),
		AuthJWTSecret:      getEnv("AUTH_JWT_SECRET", ""),
		CORSOrigins:        splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RequestTimeout:     time.Duration(getEnvInt("PROVIDER_TIMEOUT_SEC", 120)) * time.Second,
		Debug:              getEnvBool("DEBUG", false),
	}
}

// Validate reports every missing or invalid key at once.
// Missing keys wrap domain.ErrConfigurationMissing.
func (c *Config) Validate() error {
	var missing []string

	if c.AI.Embedding.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.AI.LLM.Provider == domain.AIProviderAnthropic && c.AI.LLM.APIKey == "" {
		missing = append(missing, "ANTHROPIC_API_KEY")
	}

	switch c.IndexProvider {
	case domain.VectorIndexPinecone:
		if c.Pinecone.APIKey == "" {
			missing = append(missing, "PINECONE_API_KEY")
		}
		if c.Pinecone.Index == "" && c.Pinecone.Host == "" {
			missing = append(missing, "PINECONE_INDEX")
		}
	case domain.VectorIndexQdrant:
		if c.Qdrant.URL == "" {
			missing = append(missing, "QDRANT_URL")
		}
	case domain.VectorIndexPGVector:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	}
	if c.RegistryBackend == domain.RegistryBackendPostgres && c.DatabaseURL == "" && c.IndexProvider != domain.VectorIndexPGVector {
		missing = append(missing, "DATABASE_URL")
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s", domain.ErrConfigurationMissing, strings.Join(missing, ", ")))
	}
	if err := c.AI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("LLM_PROVIDER %q: %w", c.AI.LLM.Provider, err))
	}
	if !c.IndexProvider.IsValid() {
		errs = append(errs, fmt.Errorf("VECTOR_INDEX_PROVIDER %q: %w", c.IndexProvider, domain.ErrInvalidProvider))
	}
	if !c.RegistryBackend.IsValid() {
		errs = append(errs, fmt.Errorf("REGISTRY_BACKEND %q: %w", c.RegistryBackend, domain.ErrInvalidInput))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.ParseFloat(value, 64); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
