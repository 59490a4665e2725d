// Package qdrant implements the vector index on Qdrant's REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorIndex = (*Index)(nil)

// pointNamespace derives stable point UUIDs from vector IDs
var pointNamespace = uuid.MustParse("6f1c1f4e-7d43-4b0e-9a55-3c7e0d5b2a10")

// vectorIDKey stores the original vector ID in the point payload
const vectorIDKey = "vectorId"

// Config holds Qdrant connection configuration
type Config struct {
	URL        string
	APIKey     string
	Collection string

	// Dimension is used to create the collection when it is missing
	Dimension int

	Timeout time.Duration
}

// Index is a Qdrant-backed VectorIndex using cosine distance
type Index struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	httpClient *http.Client

	ensureOnce sync.Once
	ensureErr  error
}

// NewIndex creates a Qdrant index client
func NewIndex(cfg Config) (*Index, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: QDRANT_URL", domain.ErrConfigurationMissing)
	}
	if cfg.Collection == "" {
		cfg.Collection = "eu-lens"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Index{
		url:        strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// PointID maps a vector ID to the UUID Qdrant stores it under
func PointID(vectorID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(vectorID)).String()
}

// ensureCollection creates the collection once per process if it is absent
func (i *Index) ensureCollection(ctx context.Context) error {
	i.ensureOnce.Do(func() {
		status, err := i.do(ctx, http.MethodGet, i.collectionPath(""), nil, nil)
		if err == nil {
			return
		}
		if status != http.StatusNotFound {
			i.ensureErr = err
			return
		}
		if i.dimension <= 0 {
			i.ensureErr = fmt.Errorf("collection %s missing and no dimension configured", i.collection)
			return
		}
		body := map[string]any{
			"vectors": map[string]any{"size": i.dimension, "distance": "Cosine"},
		}
		_, i.ensureErr = i.do(ctx, http.MethodPut, i.collectionPath(""), body, nil)
	})
	return i.ensureErr
}

// Upsert writes points; equal vector IDs map to the same point
func (i *Index) Upsert(ctx context.Context, vectors []*domain.IndexedVector) error {
	if len(vectors) == 0 {
		return nil
	}
	if err := i.ensureCollection(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}

	points := make([]map[string]any, len(vectors))
	for n, v := range vectors {
		payload := v.Metadata.Metadata()
		payload[vectorIDKey] = v.ID
		points[n] = map[string]any{
			"id":      PointID(v.ID),
			"vector":  v.Values,
			"payload": payload,
		}
	}

	if _, err := i.do(ctx, http.MethodPut, i.collectionPath("/points?wait=true"), map[string]any{"points": points}, nil); err != nil {
		return fmt.Errorf("%w: upsert: %v", domain.ErrIndex, err)
	}
	return nil
}

// Query returns the topK nearest points with payload
func (i *Index) Query(ctx context.Context, vector []float32, topK int) ([]domain.VectorMatch, error) {
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if _, err := i.do(ctx, http.MethodPost, i.collectionPath("/points/search"), req, &resp); err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrIndex, err)
	}

	matches := make([]domain.VectorMatch, len(resp.Result))
	for n, r := range resp.Result {
		id, _ := r.Payload[vectorIDKey].(string)
		if id == "" {
			id = fmt.Sprint(r.ID)
		}
		matches[n] = domain.VectorMatch{
			ID:       id,
			Score:    r.Score,
			Metadata: domain.ChunkFromMetadata(r.Payload),
		}
	}
	return matches, nil
}

// Stats reports the collection's vector size and point count
func (i *Index) Stats(ctx context.Context) (*domain.IndexStats, error) {
	var resp struct {
		Result struct {
			PointsCount int64 `json:"points_count"`
			Config      struct {
				Params struct {
					Vectors struct {
						Size int `json:"size"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}
	if _, err := i.do(ctx, http.MethodGet, i.collectionPath(""), nil, &resp); err != nil {
		return nil, fmt.Errorf("%w: stats: %v", domain.ErrIndex, err)
	}
	return &domain.IndexStats{
		Dimension:        resp.Result.Config.Params.Vectors.Size,
		TotalVectorCount: resp.Result.PointsCount,
	}, nil
}

// HealthCheck verifies Qdrant answers
func (i *Index) HealthCheck(ctx context.Context) error {
	if _, err := i.do(ctx, http.MethodGet, "/collections", nil, nil); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	return nil
}

func (i *Index) collectionPath(suffix string) string {
	return "/collections/" + i.collection + suffix
}

// do sends a JSON request and returns the response status
func (i *Index) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, i.url+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if i.apiKey != "" {
		req.Header.Set("api-key", i.apiKey)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("qdrant %s %s failed: %s - %s", method, path, resp.Status, string(respBody))
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
}
