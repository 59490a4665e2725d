package file

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulens/eulens/internal/core/domain"
)

const gdprURL = "http://data.europa.eu/eli/reg/2016/679"

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "document-registry.json")
	return NewRegistry(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegistry_MissingFileIsEmpty(t *testing.T) {
	r := newTestRegistry(t)

	entries, err := r.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = r.Get(context.Background(), gdprURL)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_RecordCreatesDirectoryAndFile(t *testing.T) {
	r := newTestRegistry(t)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	entry, err := r.Record(context.Background(), gdprURL, "GDPR", at)
	require.NoError(t, err)
	assert.Equal(t, at, entry.AddedAt)
	assert.Equal(t, at, entry.LastUpdated)

	data, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n    \"url\""))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "GDPR", decoded[0]["name"])
	assert.Contains(t, decoded[0], "addedAt")
	assert.Contains(t, decoded[0], "lastUpdated")
}

func TestRegistry_RecordIsIdempotentPerURL(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	_, err := r.Record(ctx, gdprURL, "GDPR", first)
	require.NoError(t, err)
	_, err = r.Record(ctx, "https://example.eu/ai-act", "AI Act", first)
	require.NoError(t, err)
	entry, err := r.Record(ctx, gdprURL, "General Data Protection Regulation", second)
	require.NoError(t, err)

	assert.Equal(t, first, entry.AddedAt)
	assert.Equal(t, second, entry.LastUpdated)
	assert.Equal(t, "General Data Protection Regulation", entry.Name)

	entries, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, gdprURL, entries[0].URL)
	assert.Equal(t, "AI Act", entries[1].Name)
}

func TestRegistry_MalformedFileIsNotOverwritten(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(filepath.Dir(r.Path()), 0o755))

	original := []byte(`[
  {"url": "http://a", "name": "A", "addedAt": "2024-05-01T10:00:00Z", "lastUpdated": "2024-05-01T10:00:00Z"},
  {"url": "http://b", "name": "B", "addedAt": "2024-05-01T10:00:00Z", "lastUpdated": "2024-05-01T10:00:00Z"},
]`)
	require.NoError(t, os.WriteFile(r.Path(), original, 0o644))

	_, err := r.Record(ctx, "http://c", "C", time.Now())
	require.Error(t, err)

	_, err = r.List(ctx)
	assert.Error(t, err)
	_, err = r.Get(ctx, "http://a")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	data, err := os.ReadFile(r.Path())
	require.NoError(t, err)
	assert.Equal(t, original, data)
}

func TestRegistry_UnreadablePathIsAnError(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := r.List(context.Background())
	assert.Error(t, err)
}

func TestNewRegistry_DefaultPath(t *testing.T) {
	assert.Equal(t, DefaultPath, NewRegistry("", nil).Path())
}
