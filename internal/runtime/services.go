package runtime

import (
	"context"
	"sync"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
)

// Services holds the provider clients shared by the ingestion and chat
// pipelines. Any of them may be nil when its configuration is missing;
// callers turn that into a request-time ErrConfigurationMissing.
// Thread-safe for concurrent access.
type Services struct {
	mu sync.RWMutex

	// Config tracks capability flags
	config *domain.RuntimeConfig

	embeddingService driven.EmbeddingService
	chatModel        driven.ChatModel
	vectorIndex      driven.VectorIndex
}

// NewServices creates a new Services registry
func NewServices(config *domain.RuntimeConfig) *Services {
	return &Services{
		config: config,
	}
}

// Config returns the runtime configuration
func (s *Services) Config() *domain.RuntimeConfig {
	return s.config
}

// EmbeddingService returns the current embedding service (may be nil)
func (s *Services) EmbeddingService() driven.EmbeddingService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.embeddingService
}

// ChatModel returns the current chat model (may be nil)
func (s *Services) ChatModel() driven.ChatModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chatModel
}

// VectorIndex returns the current vector index (may be nil)
func (s *Services) VectorIndex() driven.VectorIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vectorIndex
}

// SetEmbeddingService replaces the embedding service, closing the old one.
func (s *Services) SetEmbeddingService(svc driven.EmbeddingService) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embeddingService != nil {
		_ = s.embeddingService.Close()
	}
	s.embeddingService = svc
	s.config.SetEmbeddingAvailable(svc != nil)
}

// SetChatModel replaces the chat model, closing the old one.
func (s *Services) SetChatModel(model driven.ChatModel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chatModel != nil {
		_ = s.chatModel.Close()
	}
	s.chatModel = model
	s.config.SetChatAvailable(model != nil)
}

// SetVectorIndex replaces the vector index.
func (s *Services) SetVectorIndex(index driven.VectorIndex) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vectorIndex = index
	s.config.SetIndexAvailable(index != nil)
}

// Close shuts down all services
func (s *Services) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embeddingService != nil {
		_ = s.embeddingService.Close()
		s.embeddingService = nil
	}
	if s.chatModel != nil {
		_ = s.chatModel.Close()
		s.chatModel = nil
	}
	s.vectorIndex = nil

	s.config.SetEmbeddingAvailable(false)
	s.config.SetChatAvailable(false)
	s.config.SetIndexAvailable(false)
	return nil
}

// ValidateAndSetEmbedding checks connectivity before installing svc
func (s *Services) ValidateAndSetEmbedding(ctx context.Context, svc driven.EmbeddingService) error {
	if svc == nil {
		s.SetEmbeddingService(nil)
		return nil
	}
	if err := svc.HealthCheck(ctx); err != nil {
		_ = svc.Close()
		return err
	}
	s.SetEmbeddingService(svc)
	return nil
}

// ValidateAndSetVectorIndex checks connectivity before installing index
func (s *Services) ValidateAndSetVectorIndex(ctx context.Context, index driven.VectorIndex) error {
	if index == nil {
		s.SetVectorIndex(nil)
		return nil
	}
	if err := index.HealthCheck(ctx); err != nil {
		return err
	}
	s.SetVectorIndex(index)
	return nil
}
