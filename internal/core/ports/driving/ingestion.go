package driving

import (
	"context"

	"github.com/eulens/eulens/internal/core/domain"
)

// IngestionService loads source documents into the vector index
type IngestionService interface {
	// Ingest fetches, chunks, embeds and stores one document, then
	// records it in the registry. force is accepted for compatibility
	// and does not change behaviour.
	Ingest(ctx context.Context, url, name string, force bool) (*domain.IngestResult, error)

	// IngestCatalog ingests each entry in turn. A failed entry is
	// reported in its result and does not stop the rest.
	IngestCatalog(ctx context.Context, entries []domain.CatalogEntry) ([]*domain.IngestResult, error)

	// ListDocuments returns the registry contents
	ListDocuments(ctx context.Context) ([]*domain.RegistryEntry, error)

	// IndexStats reports the vector index dimension and size
	IndexStats(ctx context.Context) (*domain.IndexStats, error)
}
