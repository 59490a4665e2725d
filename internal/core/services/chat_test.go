package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven/mocks"
)

func gdprMatches() []domain.VectorMatch {
	return []domain.VectorMatch{
		{
			ID:    "GDPR-4",
			Score: 0.85,
			Metadata: domain.DocumentChunk{
				Text:         "The GDPR is the EU regulation on the protection of personal data.",
				SourceURL:    "http://data.europa.eu/eli/reg/2016/679",
				DocumentName: "GDPR",
			},
		},
		{
			ID:    "Fisheries-1",
			Score: 0.4,
			Metadata: domain.DocumentChunk{
				Text:         "Fishing quotas are allocated annually.",
				SourceURL:    "https://example.eu/fisheries",
				DocumentName: "Fisheries",
			},
		},
	}
}

func newChatFixture() (*ChatService, *mocks.MockEmbeddingService, *mocks.MockVectorIndex, *mocks.MockChatModel) {
	emb := mocks.NewMockEmbeddingService()
	index := mocks.NewMockVectorIndex()
	model := mocks.NewMockChatModel("The GDPR regulates personal data.")
	svc := NewChatService(ChatServiceConfig{
		Services: createTestServices(emb, index, model),
		Logger:   discardLogger(),
	})
	return svc, emb, index, model
}

func TestAnswer_FiltersSourcesButKeepsContext(t *testing.T) {
	svc, _, index, model := newChatFixture()
	index.Matches = gdprMatches()

	answer, err := svc.Answer(context.Background(), "What is GDPR?")
	require.NoError(t, err)

	assert.Equal(t, "The GDPR regulates personal data.", answer.Response)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, domain.Source{Name: "GDPR", URL: "http://data.europa.eu/eli/reg/2016/679", Relevance: 0.85}, answer.Sources[0])

	assert.Contains(t, model.LastSystemPrompt, "The GDPR is the EU regulation")
	assert.Contains(t, model.LastSystemPrompt, "Fishing quotas are allocated annually.")
	assert.Equal(t, "What is GDPR?", model.LastUserMessage)
	assert.Equal(t, 3, index.LastTopK)
}

func TestAnswer_ContextJoinedInOrder(t *testing.T) {
	svc, _, index, _ := newChatFixture()
	index.Matches = gdprMatches()

	answer, err := svc.Answer(context.Background(), "What is GDPR?")
	require.NoError(t, err)
	assert.Equal(t, "The GDPR is the EU regulation on the protection of personal data.\n\nFishing quotas are allocated annually.", answer.Context)
}

func TestAnswer_ThresholdIsStrict(t *testing.T) {
	svc, _, index, _ := newChatFixture()
	index.Matches = []domain.VectorMatch{
		{Score: 0.7, Metadata: domain.DocumentChunk{DocumentName: "Exact"}},
		{Score: 0.7000001, Metadata: domain.DocumentChunk{DocumentName: "Above"}},
		{Score: 0.2},
	}

	answer, err := svc.Answer(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "Above", answer.Sources[0].Name)
}

func TestAnswer_MissingMetadataPlaceholders(t *testing.T) {
	svc, _, index, _ := newChatFixture()
	index.Matches = []domain.VectorMatch{{Score: 0.95}}

	answer, err := svc.Answer(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "Unknown Document", answer.Sources[0].Name)
	assert.Equal(t, "#", answer.Sources[0].URL)
}

func TestAnswer_NoMatches(t *testing.T) {
	svc, _, _, model := newChatFixture()

	answer, err := svc.Answer(context.Background(), "Anything?")
	require.NoError(t, err)
	assert.NotNil(t, answer.Sources)
	assert.Empty(t, answer.Sources)
	assert.Contains(t, model.LastSystemPrompt, "Current Context:\n\n\nRemember:")
}

func TestAnswer_Failures(t *testing.T) {
	t.Run("embedding", func(t *testing.T) {
		svc, emb, _, model := newChatFixture()
		emb.FailFn = func(string) bool { return true }

		_, err := svc.Answer(context.Background(), "q")
		assert.ErrorIs(t, err, domain.ErrEmbedding)
		assert.Equal(t, 0, model.CallCount)
	})

	t.Run("index", func(t *testing.T) {
		svc, _, index, model := newChatFixture()
		index.QueryFn = func([]float32, int) ([]domain.VectorMatch, error) {
			return nil, errors.New("timeout")
		}

		_, err := svc.Answer(context.Background(), "q")
		assert.ErrorIs(t, err, domain.ErrIndex)
		assert.Equal(t, 0, model.CallCount)
	})

	t.Run("completion", func(t *testing.T) {
		svc, _, _, model := newChatFixture()
		model.Err = errors.New("rate limited")

		answer, err := svc.Answer(context.Background(), "q")
		assert.ErrorIs(t, err, domain.ErrCompletion)
		assert.Nil(t, answer)
	})
}

func TestAnswer_InvalidQuestion(t *testing.T) {
	svc, emb, _, _ := newChatFixture()

	_, err := svc.Answer(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, emb.Calls())
}

func TestAnswer_ConfigurationMissing(t *testing.T) {
	svc := NewChatService(ChatServiceConfig{
		Services: createTestServices(mocks.NewMockEmbeddingService(), mocks.NewMockVectorIndex(), nil),
		Logger:   discardLogger(),
	})

	_, err := svc.Answer(context.Background(), "q")
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestAnswer_CustomConfig(t *testing.T) {
	index := mocks.NewMockVectorIndex()
	index.Matches = gdprMatches()
	svc := NewChatService(ChatServiceConfig{
		Services:           createTestServices(mocks.NewMockEmbeddingService(), index, mocks.NewMockChatModel("ok")),
		TopK:               1,
		RelevanceThreshold: 0.9,
		Logger:             discardLogger(),
	})

	answer, err := svc.Answer(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 1, index.LastTopK)
	assert.Empty(t, answer.Sources)
	assert.False(t, strings.Contains(answer.Context, "Fishing"))
}
