package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex stores chunk embeddings in a pgvector column.
// Scores are cosine similarity, 1 - cosine distance.
type VectorIndex struct {
	db *DB
}

// NewVectorIndex creates a new pgvector-backed index
func NewVectorIndex(db *DB) *VectorIndex {
	return &VectorIndex{db: db}
}

// Upsert writes vectors in one transaction
func (s *VectorIndex) Upsert(ctx context.Context, vectors []*domain.IndexedVector) error {
	if len(vectors) == 0 {
		return nil
	}

	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO chunk_vectors (id, embedding, text, source, document, chunk_index, total_chunks, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (id) DO UPDATE SET
				embedding = EXCLUDED.embedding,
				text = EXCLUDED.text,
				source = EXCLUDED.source,
				document = EXCLUDED.document,
				chunk_index = EXCLUDED.chunk_index,
				total_chunks = EXCLUDED.total_chunks,
				updated_at = NOW()
		`
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, v := range vectors {
			m := v.Metadata
			if _, err := stmt.ExecContext(ctx,
				v.ID,
				pgvector.NewVector(v.Values),
				m.Text,
				m.SourceURL,
				m.DocumentName,
				m.ChunkIndex,
				m.TotalChunks,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: upsert: %v", domain.ErrIndex, err)
	}
	return nil
}

// Query returns the topK nearest chunks by cosine distance
func (s *VectorIndex) Query(ctx context.Context, vector []float32, topK int) ([]domain.VectorMatch, error) {
	query := `
		SELECT id, 1 - (embedding <=> $1) AS score, text, source, document, chunk_index, total_chunks
		FROM chunk_vectors
		ORDER BY embedding <=> $1
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrIndex, err)
	}
	defer rows.Close()

	matches := []domain.VectorMatch{}
	for rows.Next() {
		var match domain.VectorMatch
		m := &match.Metadata
		if err := rows.Scan(&match.ID, &match.Score, &m.Text, &m.SourceURL, &m.DocumentName, &m.ChunkIndex, &m.TotalChunks); err != nil {
			return nil, fmt.Errorf("%w: query: %v", domain.ErrIndex, err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrIndex, err)
	}
	return matches, nil
}

// Stats reports the stored dimension and row count
func (s *VectorIndex) Stats(ctx context.Context) (*domain.IndexStats, error) {
	var stats domain.IndexStats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunk_vectors`).Scan(&stats.TotalVectorCount); err != nil {
		return nil, fmt.Errorf("%w: stats: %v", domain.ErrIndex, err)
	}

	err := s.db.QueryRowContext(ctx, `SELECT vector_dims(embedding) FROM chunk_vectors LIMIT 1`).Scan(&stats.Dimension)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: stats: %v", domain.ErrIndex, err)
	}
	return &stats, nil
}

// HealthCheck pings the database
func (s *VectorIndex) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	return nil
}
