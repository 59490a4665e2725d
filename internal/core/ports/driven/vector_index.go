package driven

import (
	"context"

	"github.com/eulens/eulens/internal/core/domain"
)

// VectorIndex stores chunk embeddings and answers similarity queries
type VectorIndex interface {
	// Upsert writes vectors, overwriting any existing entry with the same ID
	Upsert(ctx context.Context, vectors []*domain.IndexedVector) error

	// Query returns up to topK matches ordered by descending score
	Query(ctx context.Context, vector []float32, topK int) ([]domain.VectorMatch, error)

	// Stats reports index dimension and vector count
	Stats(ctx context.Context) (*domain.IndexStats, error)

	// HealthCheck verifies the index is reachable
	HealthCheck(ctx context.Context) error
}
