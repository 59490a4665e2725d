package driven

import (
	"context"
	"time"

	"github.com/eulens/eulens/internal/core/domain"
)

// DocumentRegistry persists which documents have been ingested.
// Entries are keyed by URL.
type DocumentRegistry interface {
	// Record inserts or updates the entry for url.
	// A new entry gets AddedAt = LastUpdated = at. An existing entry
	// keeps AddedAt and takes the new name and LastUpdated.
	Record(ctx context.Context, url, name string, at time.Time) (*domain.RegistryEntry, error)

	// Get returns the entry for url or domain.ErrNotFound
	Get(ctx context.Context, url string) (*domain.RegistryEntry, error)

	// List returns all entries in insertion order.
	// A missing or unreadable store yields an empty list.
	List(ctx context.Context) ([]*domain.RegistryEntry, error)
}
