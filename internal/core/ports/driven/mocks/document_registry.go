package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/eulens/eulens/internal/core/domain"
)

// MockDocumentRegistry is an in-memory DocumentRegistry for testing
type MockDocumentRegistry struct {
	mu      sync.Mutex
	entries []*domain.RegistryEntry

	RecordFn func(url, name string, at time.Time) error
}

// NewMockDocumentRegistry creates an empty registry
func NewMockDocumentRegistry() *MockDocumentRegistry {
	return &MockDocumentRegistry{}
}

func (m *MockDocumentRegistry) Record(ctx context.Context, url, name string, at time.Time) (*domain.RegistryEntry, error) {
	if m.RecordFn != nil {
		if err := m.RecordFn(url, name, at); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.URL == url {
			e.Name = name
			e.LastUpdated = at
			cp := *e
			return &cp, nil
		}
	}
	e := &domain.RegistryEntry{URL: url, Name: name, AddedAt: at, LastUpdated: at}
	m.entries = append(m.entries, e)
	cp := *e
	return &cp, nil
}

func (m *MockDocumentRegistry) Get(ctx context.Context, url string) (*domain.RegistryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.URL == url {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockDocumentRegistry) List(ctx context.Context) ([]*domain.RegistryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.RegistryEntry, len(m.entries))
	for i, e := range m.entries {
		cp := *e
		out[i] = &cp
	}
	return out, nil
}
