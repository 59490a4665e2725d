// Package file stores the document registry as a JSON file on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentRegistry = (*Registry)(nil)

// DefaultPath is where the registry lives relative to the working directory
const DefaultPath = "data/document-registry.json"

// Registry is a JSON array of entries, rewritten wholesale on every change
type Registry struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewRegistry creates a registry backed by path
func NewRegistry(path string, logger *slog.Logger) *Registry {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{path: path, logger: logger}
}

// Path returns the registry file location
func (r *Registry) Path() string {
	return r.path
}

// Record inserts or updates the entry for url and persists the registry
func (r *Registry) Record(ctx context.Context, url, name string, at time.Time) (*domain.RegistryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return nil, err
	}

	var entry *domain.RegistryEntry
	for _, e := range entries {
		if e.URL == url {
			entry = e
			break
		}
	}
	if entry == nil {
		entry = &domain.RegistryEntry{URL: url, AddedAt: at}
		entries = append(entries, entry)
	}
	entry.Name = name
	entry.LastUpdated = at

	if err := r.save(entries); err != nil {
		return nil, err
	}
	result := *entry
	return &result, nil
}

// Get returns the entry for url
func (r *Registry) Get(ctx context.Context, url string) (*domain.RegistryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.URL == url {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns all entries in file order
func (r *Registry) List(ctx context.Context) ([]*domain.RegistryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// load reads the file. Only a missing file reads as empty; anything that
// cannot be parsed is an error so the next save cannot overwrite it.
func (r *Registry) load() ([]*domain.RegistryEntry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.RegistryEntry{}, nil
		}
		return nil, fmt.Errorf("read registry %s: %w", r.path, err)
	}

	var entries []*domain.RegistryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", r.path, err)
	}
	if entries == nil {
		entries = []*domain.RegistryEntry{}
	}
	return entries, nil
}

// save writes entries to a temp file and renames it over the registry
func (r *Registry) save(entries []*domain.RegistryEntry) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".registry-*.json")
	if err != nil {
		return fmt.Errorf("create temp registry: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write registry: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace registry: %w", err)
	}
	r.logger.Debug("registry saved", "path", r.path, "entries", len(entries))
	return nil
}
