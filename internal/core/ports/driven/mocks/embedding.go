package mocks

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/eulens/eulens/internal/core/domain"
)

// MockEmbeddingService produces deterministic hash-seeded vectors
type MockEmbeddingService struct {
	mu         sync.Mutex
	dimensions int
	model      string
	calls      []string

	// FailFn makes embedding fail for matching input
	FailFn func(text string) bool
}

// NewMockEmbeddingService creates a new MockEmbeddingService
func NewMockEmbeddingService() *MockEmbeddingService {
	return &MockEmbeddingService{
		dimensions: 8,
		model:      "mock-embedding-model",
	}
}

func (m *MockEmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

func (m *MockEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.mu.Unlock()

	if m.FailFn != nil && m.FailFn(query) {
		return nil, domain.ErrEmbedding
	}
	return m.vector(query), nil
}

func (m *MockEmbeddingService) Dimensions() int {
	return m.dimensions
}

func (m *MockEmbeddingService) Model() string {
	return m.model
}

func (m *MockEmbeddingService) HealthCheck(ctx context.Context) error {
	return nil
}

func (m *MockEmbeddingService) Close() error {
	return nil
}

// Calls returns every text embedded so far, in order
func (m *MockEmbeddingService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockEmbeddingService) vector(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	v := make([]float32, m.dimensions)
	for i := range v {
		seed = seed*1103515245 + 12345
		v[i] = float32(seed%1000) / 1000.0
	}
	return v
}
