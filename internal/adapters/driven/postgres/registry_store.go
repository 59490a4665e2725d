package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentRegistry = (*RegistryStore)(nil)

// RegistryStore implements driven.DocumentRegistry using PostgreSQL
type RegistryStore struct {
	db *DB
}

// NewRegistryStore creates a new RegistryStore
func NewRegistryStore(db *DB) *RegistryStore {
	return &RegistryStore{db: db}
}

// Record upserts the entry for url. added_at is written only on insert.
func (s *RegistryStore) Record(ctx context.Context, url, name string, at time.Time) (*domain.RegistryEntry, error) {
	query := `
		INSERT INTO document_registry (url, name, added_at, last_updated)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (url) DO UPDATE SET
			name = EXCLUDED.name,
			last_updated = EXCLUDED.last_updated
		RETURNING url, name, added_at, last_updated
	`

	var entry domain.RegistryEntry
	err := s.db.QueryRowContext(ctx, query, url, name, at).Scan(
		&entry.URL, &entry.Name, &entry.AddedAt, &entry.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Get retrieves the entry for url
func (s *RegistryStore) Get(ctx context.Context, url string) (*domain.RegistryEntry, error) {
	query := `SELECT url, name, added_at, last_updated FROM document_registry WHERE url = $1`

	var entry domain.RegistryEntry
	err := s.db.QueryRowContext(ctx, query, url).Scan(
		&entry.URL, &entry.Name, &entry.AddedAt, &entry.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns all entries in insertion order
func (s *RegistryStore) List(ctx context.Context) ([]*domain.RegistryEntry, error) {
	query := `SELECT url, name, added_at, last_updated FROM document_registry ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*domain.RegistryEntry{}
	for rows.Next() {
		var entry domain.RegistryEntry
		if err := rows.Scan(&entry.URL, &entry.Name, &entry.AddedAt, &entry.LastUpdated); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
