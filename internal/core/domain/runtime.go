package domain

import "sync"

// RuntimeConfig tracks which capabilities are available at runtime.
// Static fields are set at startup; flags change as services are wired.
// Thread-safe for concurrent access.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Static (set at startup, read-only)
	IndexProvider   VectorIndexProvider
	RegistryBackend RegistryBackend

	embeddingAvailable bool
	chatAvailable      bool
	indexAvailable     bool
}

// NewRuntimeConfig creates a new RuntimeConfig with initial values
func NewRuntimeConfig(index VectorIndexProvider, registry RegistryBackend) *RuntimeConfig {
	return &RuntimeConfig{
		IndexProvider:   index,
		RegistryBackend: registry,
	}
}

// EmbeddingAvailable returns whether an embedding service is wired
func (c *RuntimeConfig) EmbeddingAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.embeddingAvailable
}

// ChatAvailable returns whether a chat model is wired
func (c *RuntimeConfig) ChatAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.chatAvailable
}

// IndexAvailable returns whether a vector index is wired
func (c *RuntimeConfig) IndexAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexAvailable
}

// SetEmbeddingAvailable updates the embedding availability flag
func (c *RuntimeConfig) SetEmbeddingAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embeddingAvailable = available
}

// SetChatAvailable updates the chat availability flag
func (c *RuntimeConfig) SetChatAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chatAvailable = available
}

// SetIndexAvailable updates the vector index availability flag
func (c *RuntimeConfig) SetIndexAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexAvailable = available
}

// CanIngest returns true if documents can be embedded and stored
func (c *RuntimeConfig) CanIngest() bool {
	return c.EmbeddingAvailable() && c.IndexAvailable()
}

// CanAnswer returns true if questions can be answered
func (c *RuntimeConfig) CanAnswer() bool {
	return c.CanIngest() && c.ChatAvailable()
}
