package domain

// AIProvider identifies the embedding or chat model provider
type AIProvider string

const (
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if this is a known provider
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// SupportsEmbeddings returns true if the provider offers an embeddings API
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOpenAI
}

// VectorIndexProvider identifies the vector index backend
type VectorIndexProvider string

const (
	VectorIndexPinecone VectorIndexProvider = "pinecone"
	VectorIndexQdrant   VectorIndexProvider = "qdrant"
	VectorIndexPGVector VectorIndexProvider = "pgvector"
	VectorIndexMemory   VectorIndexProvider = "memory"
)

// IsValid returns true if this is a known index backend
func (p VectorIndexProvider) IsValid() bool {
	switch p {
	case VectorIndexPinecone, VectorIndexQdrant, VectorIndexPGVector, VectorIndexMemory:
		return true
	default:
		return false
	}
}

// RegistryBackend identifies where the document registry is persisted
type RegistryBackend string

const (
	RegistryBackendFile     RegistryBackend = "file"
	RegistryBackendPostgres RegistryBackend = "postgres"
)

// IsValid returns true if this is a known registry backend
func (b RegistryBackend) IsValid() bool {
	return b == RegistryBackendFile || b == RegistryBackendPostgres
}

// EmbeddingSettings configures the embedding service
type EmbeddingSettings struct {
	Provider AIProvider `json:"provider"`
	Model    string     `json:"model"`
	APIKey   string     `json:"-"` // Never serialize to JSON
	BaseURL  string     `json:"base_url,omitempty"`
}

// IsConfigured returns true if embedding settings are properly configured
func (e *EmbeddingSettings) IsConfigured() bool {
	return e.Provider != "" && e.APIKey != ""
}

// LLMSettings configures the chat completion service
type LLMSettings struct {
	Provider  AIProvider `json:"provider"`
	Model     string     `json:"model"`
	APIKey    string     `json:"-"` // Never serialize to JSON
	BaseURL   string     `json:"base_url,omitempty"`
	MaxTokens int        `json:"max_tokens,omitempty"`
}

// IsConfigured returns true if LLM settings are properly configured
func (l *LLMSettings) IsConfigured() bool {
	return l.Provider != "" && l.APIKey != ""
}

// AISettings groups the embedding and chat model configuration
type AISettings struct {
	Embedding EmbeddingSettings `json:"embedding"`
	LLM       LLMSettings       `json:"llm"`
}

// Validate checks if AISettings are valid
func (s *AISettings) Validate() error {
	if s.Embedding.Provider != "" && !s.Embedding.Provider.SupportsEmbeddings() {
		return ErrInvalidProvider
	}
	if s.LLM.Provider != "" && !s.LLM.Provider.IsValid() {
		return ErrInvalidProvider
	}
	return nil
}
