package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// DocumentChunk is one sentence-aligned segment of a source document.
// It is stored only as metadata attached to a vector in the index.
type DocumentChunk struct {
	Text         string `json:"text"`
	SourceURL    string `json:"source"`
	DocumentName string `json:"document"`
	ChunkIndex   int    `json:"chunkIndex"`
	TotalChunks  int    `json:"totalChunks"`
}

// IndexedVector is a chunk embedding as written to the vector index
type IndexedVector struct {
	ID       string        `json:"id"`
	Values   []float32     `json:"values"`
	Metadata DocumentChunk `json:"metadata"`
}

// VectorID returns the index ID for a chunk of a named document.
// Re-ingesting the same document overwrites vectors with the same IDs.
func VectorID(documentName string, chunkIndex int) string {
	return documentName + "-" + strconv.Itoa(chunkIndex)
}

// NewIndexedVector builds the vector entry for a chunk
func NewIndexedVector(chunk DocumentChunk, values []float32) *IndexedVector {
	return &IndexedVector{
		ID:       VectorID(chunk.DocumentName, chunk.ChunkIndex),
		Values:   values,
		Metadata: chunk,
	}
}

// VectorMatch is a single similarity query hit.
// Metadata fields are empty when the index returned none.
type VectorMatch struct {
	ID       string        `json:"id"`
	Score    float64       `json:"score"`
	Metadata DocumentChunk `json:"metadata"`
}

// IndexStats describes the vector index contents
type IndexStats struct {
	Dimension        int   `json:"dimension"`
	TotalVectorCount int64 `json:"total_vector_count"`
}

// RegistryEntry records an ingested document.
// There is at most one entry per URL.
type RegistryEntry struct {
	URL         string    `json:"url"`
	Name        string    `json:"name"`
	AddedAt     time.Time `json:"addedAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// IngestResult summarises one document ingestion
type IngestResult struct {
	Name        string        `json:"name"`
	URL         string        `json:"url"`
	TotalChunks int           `json:"total_chunks"`
	Upserted    int           `json:"upserted"`
	Skipped     int           `json:"skipped"`
	Duration    time.Duration `json:"duration" swaggertype:"integer"`
	Error       string        `json:"error,omitempty"`
}

// CatalogEntry names a document to ingest in bulk
type CatalogEntry struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// FetchedDocument is the raw body of a source document
type FetchedDocument struct {
	URL         string
	Content     string
	ContentType string
}

// Metadata returns the chunk as the flat key/value map stored beside a vector
func (c DocumentChunk) Metadata() map[string]any {
	return map[string]any{
		"text":        c.Text,
		"source":      c.SourceURL,
		"document":    c.DocumentName,
		"chunkIndex":  c.ChunkIndex,
		"totalChunks": c.TotalChunks,
	}
}

// ChunkFromMetadata rebuilds a chunk from vector metadata.
// Missing keys stay empty; numbers may arrive as any JSON numeric type.
func ChunkFromMetadata(m map[string]any) DocumentChunk {
	str := func(key string) string {
		s, _ := m[key].(string)
		return s
	}
	num := func(key string) int {
		switch v := m[key].(type) {
		case float64:
			return int(v)
		case float32:
			return int(v)
		case int:
			return v
		case int64:
			return int(v)
		case json.Number:
			n, _ := v.Int64()
			return int(n)
		}
		return 0
	}
	return DocumentChunk{
		Text:         str("text"),
		SourceURL:    str("source"),
		DocumentName: str("document"),
		ChunkIndex:   num("chunkIndex"),
		TotalChunks:  num("totalChunks"),
	}
}
