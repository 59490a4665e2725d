package driven

import (
	"context"

	"github.com/eulens/eulens/internal/core/domain"
)

// DocumentFetcher retrieves source documents over the network
type DocumentFetcher interface {
	// Fetch returns the document body. Non-success responses
	// yield an error wrapping domain.ErrFetch.
	Fetch(ctx context.Context, url string) (*domain.FetchedDocument, error)
}
