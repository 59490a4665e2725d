package mocks

import (
	"context"
	"sync"

	"github.com/eulens/eulens/internal/core/domain"
)

// MockVectorIndex keeps upserted vectors in a map and returns
// configured matches from Query.
type MockVectorIndex struct {
	mu      sync.Mutex
	vectors map[string]*domain.IndexedVector
	order   []string

	// Matches is returned by Query, truncated to topK
	Matches []domain.VectorMatch

	UpsertFn func(vectors []*domain.IndexedVector) error
	QueryFn  func(vector []float32, topK int) ([]domain.VectorMatch, error)
	HealthFn func() error

	LastTopK int
}

// NewMockVectorIndex creates an empty MockVectorIndex
func NewMockVectorIndex() *MockVectorIndex {
	return &MockVectorIndex{
		vectors: make(map[string]*domain.IndexedVector),
	}
}

func (m *MockVectorIndex) Upsert(ctx context.Context, vectors []*domain.IndexedVector) error {
	if m.UpsertFn != nil {
		if err := m.UpsertFn(vectors); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range vectors {
		if _, exists := m.vectors[v.ID]; !exists {
			m.order = append(m.order, v.ID)
		}
		m.vectors[v.ID] = v
	}
	return nil
}

func (m *MockVectorIndex) Query(ctx context.Context, vector []float32, topK int) ([]domain.VectorMatch, error) {
	m.mu.Lock()
	m.LastTopK = topK
	m.mu.Unlock()

	if m.QueryFn != nil {
		return m.QueryFn(vector, topK)
	}
	matches := m.Matches
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (m *MockVectorIndex) Stats(ctx context.Context) (*domain.IndexStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.IndexStats{TotalVectorCount: int64(len(m.vectors))}
	for _, v := range m.vectors {
		stats.Dimension = len(v.Values)
		break
	}
	return stats, nil
}

func (m *MockVectorIndex) HealthCheck(ctx context.Context) error {
	if m.HealthFn != nil {
		return m.HealthFn()
	}
	return nil
}

// Vector returns the stored vector with id, or nil
func (m *MockVectorIndex) Vector(id string) *domain.IndexedVector {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vectors[id]
}

// IDs returns stored IDs in first-insert order
func (m *MockVectorIndex) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}
