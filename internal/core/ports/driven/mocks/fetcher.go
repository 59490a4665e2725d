package mocks

import (
	"context"
	"fmt"

	"github.com/eulens/eulens/internal/core/domain"
)

// MockDocumentFetcher serves documents from a map keyed by URL.
// Unknown URLs fail like a 404.
type MockDocumentFetcher struct {
	Documents map[string]*domain.FetchedDocument
}

// NewMockDocumentFetcher creates an empty fetcher
func NewMockDocumentFetcher() *MockDocumentFetcher {
	return &MockDocumentFetcher{Documents: make(map[string]*domain.FetchedDocument)}
}

// AddText registers a plain text document
func (m *MockDocumentFetcher) AddText(url, content string) {
	m.Documents[url] = &domain.FetchedDocument{URL: url, Content: content, ContentType: "text/plain"}
}

func (m *MockDocumentFetcher) Fetch(ctx context.Context, url string) (*domain.FetchedDocument, error) {
	doc, ok := m.Documents[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s: status 404", domain.ErrFetch, url)
	}
	return doc, nil
}
