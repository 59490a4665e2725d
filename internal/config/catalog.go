package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eulens/eulens/internal/core/domain"
)

// Catalog is the list of documents the populate command ingests
type Catalog struct {
	Documents []domain.CatalogEntry `yaml:"documents"`
}

// DefaultCatalog is used when no catalog file exists
func DefaultCatalog() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{Name: "GDPR", URL: "http://data.europa.eu/eli/reg/2016/679"},
	}
}

// LoadCatalog reads a YAML catalog. A missing file yields DefaultCatalog.
func LoadCatalog(path string) ([]domain.CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCatalog(), nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	for i, entry := range catalog.Documents {
		if strings.TrimSpace(entry.Name) == "" || strings.TrimSpace(entry.URL) == "" {
			return nil, fmt.Errorf("%w: catalog entry %d needs name and url", domain.ErrInvalidInput, i)
		}
	}
	return catalog.Documents, nil
}
