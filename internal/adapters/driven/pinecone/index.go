// Package pinecone implements the vector index on the official Pinecone Go SDK.
package pinecone

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorIndex = (*Index)(nil)

// Config holds Pinecone connection configuration
type Config struct {
	APIKey string

	// IndexName is resolved to a data plane host when Host is empty
	IndexName string

	// Environment, when set, must match the environment of a pod index
	Environment string

	// Host is the index data plane host, e.g. eu-lens-abc123.svc.pinecone.io
	Host string

	Namespace string

	// Timeout bounds each control and data plane call
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig(apiKey, indexName string) Config {
	return Config{
		APIKey:    apiKey,
		IndexName: indexName,
		Timeout:   30 * time.Second,
	}
}

// dataPlane is the part of *pinecone.IndexConnection the index uses
type dataPlane interface {
	UpsertVectors(ctx context.Context, in []*pinecone.Vector) (uint32, error)
	QueryByVectorValues(ctx context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error)
	DescribeIndexStats(ctx context.Context) (*pinecone.DescribeIndexStatsResponse, error)
	Close() error
}

// Index is a Pinecone-backed VectorIndex
type Index struct {
	conn    dataPlane
	timeout time.Duration
}

// NewIndex connects to the index data plane, resolving the host through
// DescribeIndex when cfg.Host is empty. Calls are never retried.
func NewIndex(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: PINECONE_API_KEY", domain.ErrConfigurationMissing)
	}
	if cfg.Host == "" && cfg.IndexName == "" {
		return nil, fmt.Errorf("%w: PINECONE_INDEX or PINECONE_HOST", domain.ErrConfigurationMissing)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey:     cfg.APIKey,
		RestClient: &http.Client{Timeout: cfg.Timeout},
		SourceTag:  "eulens",
	})
	if err != nil {
		return nil, fmt.Errorf("create pinecone client: %w", err)
	}

	host := cfg.Host
	if host == "" {
		describeCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		desc, err := client.DescribeIndex(describeCtx, cfg.IndexName)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%w: describe pinecone index %q: %v", domain.ErrServiceUnavailable, cfg.IndexName, err)
		}
		if err := checkEnvironment(desc, cfg.Environment); err != nil {
			return nil, err
		}
		if desc.Host == "" {
			return nil, fmt.Errorf("%w: pinecone index %q has no host", domain.ErrServiceUnavailable, cfg.IndexName)
		}
		host = desc.Host
	}

	conn, err := client.Index(pinecone.NewIndexConnParams{
		Host:      host,
		Namespace: cfg.Namespace,
	}, grpc.WithDisableRetry())
	if err != nil {
		return nil, fmt.Errorf("%w: connect pinecone index: %v", domain.ErrServiceUnavailable, err)
	}

	return newIndex(conn, cfg.Timeout), nil
}

func newIndex(conn dataPlane, timeout time.Duration) *Index {
	return &Index{conn: conn, timeout: timeout}
}

// Upsert writes vectors; existing IDs are overwritten
func (i *Index) Upsert(ctx context.Context, vectors []*domain.IndexedVector) error {
	if len(vectors) == 0 {
		return nil
	}

	batch := make([]*pinecone.Vector, 0, len(vectors))
	for _, v := range vectors {
		pv, err := toVector(v)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrIndex, err)
		}
		batch = append(batch, pv)
	}

	ctx, cancel := i.withTimeout(ctx)
	defer cancel()
	if _, err := i.conn.UpsertVectors(ctx, batch); err != nil {
		return fmt.Errorf("%w: upsert: %v", domain.ErrIndex, err)
	}
	return nil
}

// Query returns the topK nearest vectors with metadata
func (i *Index) Query(ctx context.Context, vector []float32, topK int) ([]domain.VectorMatch, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	resp, err := i.conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(topK),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrIndex, err)
	}

	matches := make([]domain.VectorMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		matches = append(matches, fromScored(m))
	}
	return matches, nil
}

// Stats reports index dimension and total vector count
func (i *Index) Stats(ctx context.Context) (*domain.IndexStats, error) {
	ctx, cancel := i.withTimeout(ctx)
	defer cancel()

	resp, err := i.conn.DescribeIndexStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: stats: %v", domain.ErrIndex, err)
	}

	stats := &domain.IndexStats{TotalVectorCount: int64(resp.TotalVectorCount)}
	if resp.Dimension != nil {
		stats.Dimension = int(*resp.Dimension)
	}
	return stats, nil
}

// HealthCheck verifies the data plane answers
func (i *Index) HealthCheck(ctx context.Context) error {
	if _, err := i.Stats(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	return nil
}

// Close releases the data plane connection
func (i *Index) Close() error {
	return i.conn.Close()
}

func (i *Index) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if i.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, i.timeout)
}

// checkEnvironment rejects a pod index living in another environment.
// Serverless indexes have no environment and always pass.
func checkEnvironment(desc *pinecone.Index, environment string) error {
	if environment == "" || desc.Spec == nil || desc.Spec.Pod == nil {
		return nil
	}
	if desc.Spec.Pod.Environment != environment {
		return fmt.Errorf("%w: pinecone index %q is in environment %q, not %q",
			domain.ErrInvalidInput, desc.Name, desc.Spec.Pod.Environment, environment)
	}
	return nil
}

// toVector converts an indexed vector to the SDK form
func toVector(v *domain.IndexedVector) (*pinecone.Vector, error) {
	metadata, err := structpb.NewStruct(v.Metadata.Metadata())
	if err != nil {
		return nil, fmt.Errorf("encode metadata for %s: %w", v.ID, err)
	}
	values := v.Values
	return &pinecone.Vector{
		Id:       v.ID,
		Values:   &values,
		Metadata: metadata,
	}, nil
}

// fromScored converts a query hit; missing metadata leaves the chunk empty
func fromScored(m *pinecone.ScoredVector) domain.VectorMatch {
	match := domain.VectorMatch{
		ID:    m.Vector.Id,
		Score: float64(m.Score),
	}
	if m.Vector.Metadata != nil {
		match.Metadata = domain.ChunkFromMetadata(m.Vector.Metadata.AsMap())
	}
	return match
}
