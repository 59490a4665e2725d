package ai

import (
	"fmt"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
)

// Ensure Factory implements AIServiceFactory
var _ driven.AIServiceFactory = (*Factory)(nil)

// Factory creates AI services based on configuration
type Factory struct{}

// NewFactory creates a new AI service factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateEmbeddingService creates an embedding service from settings
func (f *Factory) CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return NewOpenAIEmbedding(EmbeddingConfig{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
		})
	default:
		return nil, fmt.Errorf("%w: %s has no embeddings API", domain.ErrInvalidProvider, settings.Provider)
	}
}

// CreateChatModel creates a chat model from settings
func (f *Factory) CreateChatModel(settings *domain.LLMSettings) (driven.ChatModel, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	cfg := ChatConfig{
		APIKey:    settings.APIKey,
		Model:     settings.Model,
		BaseURL:   settings.BaseURL,
		MaxTokens: settings.MaxTokens,
	}
	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return NewOpenAIChat(cfg)
	case domain.AIProviderAnthropic:
		return NewAnthropicChat(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}
