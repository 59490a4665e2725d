package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driving"
	"github.com/eulens/eulens/internal/core/prompts"
	"github.com/eulens/eulens/internal/runtime"
)

// Verify interface compliance
var _ driving.ChatService = (*ChatService)(nil)

// ChatService answers a question from the indexed documents.
// Each question is answered on its own: embed, retrieve, then generate.
type ChatService struct {
	services  *runtime.Services
	topK      int
	threshold float64
	logger    *slog.Logger
}

// ChatServiceConfig holds dependencies for ChatService.
type ChatServiceConfig struct {
	Services *runtime.Services

	// TopK is the number of passages retrieved (default 3)
	TopK int

	// RelevanceThreshold is the score a match must exceed to be cited (default 0.7)
	RelevanceThreshold float64

	Logger *slog.Logger
}

// NewChatService creates a new chat service.
func NewChatService(cfg ChatServiceConfig) *ChatService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	threshold := cfg.RelevanceThreshold
	if threshold <= 0 {
		threshold = domain.DefaultRelevanceThreshold
	}

	return &ChatService{
		services:  cfg.Services,
		topK:      topK,
		threshold: threshold,
		logger:    logger,
	}
}

// Answer runs the retrieval pipeline for one question.
// Every match contributes to the context; only matches scoring above the
// threshold are returned as sources. Any failure aborts the whole answer.
func (s *ChatService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}

	embedder := s.services.EmbeddingService()
	index := s.services.VectorIndex()
	model := s.services.ChatModel()
	if embedder == nil || index == nil || model == nil {
		return nil, fmt.Errorf("%w: chat requires embedding, vector index and chat model", domain.ErrConfigurationMissing)
	}

	vector, err := embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, wrapErr(domain.ErrEmbedding, err)
	}

	matches, err := index.Query(ctx, vector, s.topK)
	if err != nil {
		return nil, wrapErr(domain.ErrIndex, err)
	}

	passages := make([]string, len(matches))
	sources := make([]domain.Source, 0, len(matches))
	for i, m := range matches {
		passages[i] = m.Metadata.Text
		if src := domain.SourceFromMatch(m); src.Relevance > s.threshold {
			sources = append(sources, src)
		}
	}
	contextText := strings.Join(passages, "\n\n")

	s.logger.Debug("retrieved context",
		"matches", len(matches),
		"sources", len(sources),
		"context_length", len(contextText),
	)

	reply, err := model.Complete(ctx, prompts.BuildSystemPrompt(contextText), question)
	if err != nil {
		return nil, wrapErr(domain.ErrCompletion, err)
	}

	return &domain.Answer{
		Response: reply,
		Sources:  sources,
		Context:  contextText,
	}, nil
}

// wrapErr tags err with kind unless it already carries it
func wrapErr(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %v", kind, err)
}
