// Package memory provides an in-process vector index for local runs and tests.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorIndex = (*Index)(nil)

// Index keeps vectors in a map and scores queries by cosine similarity.
// Contents are lost when the process exits.
type Index struct {
	mu      sync.RWMutex
	order   []string
	vectors map[string]*domain.IndexedVector
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{vectors: make(map[string]*domain.IndexedVector)}
}

// Upsert stores copies of the vectors, replacing entries with equal IDs
func (i *Index) Upsert(ctx context.Context, vectors []*domain.IndexedVector) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, v := range vectors {
		if _, ok := i.vectors[v.ID]; !ok {
			i.order = append(i.order, v.ID)
		}
		values := make([]float32, len(v.Values))
		copy(values, v.Values)
		i.vectors[v.ID] = &domain.IndexedVector{ID: v.ID, Values: values, Metadata: v.Metadata}
	}
	return nil
}

// Query returns the topK most similar vectors, highest score first.
// Ties keep insertion order.
func (i *Index) Query(ctx context.Context, vector []float32, topK int) ([]domain.VectorMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	matches := make([]domain.VectorMatch, 0, len(i.order))
	for _, id := range i.order {
		v := i.vectors[id]
		matches = append(matches, domain.VectorMatch{
			ID:       id,
			Score:    CosineSimilarity(vector, v.Values),
			Metadata: v.Metadata,
		})
	}
	i.mu.RUnlock()

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})
	if topK >= 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Stats reports the dimension of the first stored vector and the count
func (i *Index) Stats(ctx context.Context) (*domain.IndexStats, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	stats := &domain.IndexStats{TotalVectorCount: int64(len(i.order))}
	if len(i.order) > 0 {
		stats.Dimension = len(i.vectors[i.order[0]].Values)
	}
	return stats, nil
}

// HealthCheck always succeeds
func (i *Index) HealthCheck(ctx context.Context) error {
	return nil
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths or zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for n := range a {
		dot += float64(a[n]) * float64(b[n])
		normA += float64(a[n]) * float64(a[n])
		normB += float64(b[n]) * float64(b[n])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
