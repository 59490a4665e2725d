package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
	"github.com/eulens/eulens/internal/core/ports/driven/mocks"
	"github.com/eulens/eulens/internal/runtime"
)

type fakeIngestion struct {
	ingestFn  func(url, name string, force bool) (*domain.IngestResult, error)
	catalogFn func(entries []domain.CatalogEntry) ([]*domain.IngestResult, error)
	entries   []*domain.RegistryEntry
	stats     *domain.IndexStats

	lastCatalog []domain.CatalogEntry
}

func (f *fakeIngestion) Ingest(ctx context.Context, url, name string, force bool) (*domain.IngestResult, error) {
	if f.ingestFn != nil {
		return f.ingestFn(url, name, force)
	}
	return &domain.IngestResult{Name: name, URL: url, TotalChunks: 2, Upserted: 2}, nil
}

func (f *fakeIngestion) IngestCatalog(ctx context.Context, entries []domain.CatalogEntry) ([]*domain.IngestResult, error) {
	f.lastCatalog = entries
	if f.catalogFn != nil {
		return f.catalogFn(entries)
	}
	results := make([]*domain.IngestResult, len(entries))
	for i, e := range entries {
		results[i] = &domain.IngestResult{Name: e.Name, URL: e.URL, TotalChunks: 1, Upserted: 1}
	}
	return results, nil
}

func (f *fakeIngestion) ListDocuments(ctx context.Context) ([]*domain.RegistryEntry, error) {
	return f.entries, nil
}

func (f *fakeIngestion) IndexStats(ctx context.Context) (*domain.IndexStats, error) {
	if f.stats == nil {
		return nil, domain.ErrIndex
	}
	return f.stats, nil
}

type fakeChat struct {
	answer *domain.Answer
	err    error
}

func (f *fakeChat) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	return f.answer, f.err
}

// execute runs the root command with fresh flag state and captured output
func execute(t *testing.T, ingest *fakeIngestion, chat *fakeChat, services *runtime.Services, args ...string) (string, error) {
	t.Helper()
	return executeWithLock(t, ingest, chat, services, nil, args...)
}

func executeWithLock(t *testing.T, ingest *fakeIngestion, chat *fakeChat, services *runtime.Services, lock driven.DistributedLock, args ...string) (string, error) {
	t.Helper()
	ingestURL, ingestName, ingestForce, verbose = "", "", false, false
	catalogPath = "documents.yaml"
	documentsJSON, askJSON = false, false
	for _, name := range []string{"url", "name", "force"} {
		rootCmd.Flags().Lookup(name).Changed = false
	}

	if ingest == nil {
		ingest = &fakeIngestion{}
	}
	if chat == nil {
		chat = &fakeChat{}
	}
	SetServices(ingest, chat, services, lock)
	t.Cleanup(func() { SetServices(nil, nil, nil, nil) })

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := Execute(context.Background())
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest-document", rootCmd.Use)
}

func TestRootCmd_RequiresURLAndName(t *testing.T) {
	_, err := execute(t, nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s)")

	_, err = execute(t, nil, nil, nil, "--url", "http://example.eu/doc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"name"`)
}

func TestRootCmd_Ingests(t *testing.T) {
	var gotForce bool
	ingest := &fakeIngestion{ingestFn: func(url, name string, force bool) (*domain.IngestResult, error) {
		gotForce = force
		return &domain.IngestResult{Name: name, URL: url, TotalChunks: 5, Upserted: 4, Skipped: 1, Duration: 1500 * time.Millisecond}, nil
	}}

	out, err := execute(t, ingest, nil, nil, "--url", "http://data.europa.eu/eli/reg/2016/679", "--name", "GDPR", "--force")
	require.NoError(t, err)
	assert.True(t, gotForce)
	assert.Contains(t, out, "Ingested GDPR (http://data.europa.eu/eli/reg/2016/679)")
	assert.Contains(t, out, "chunks: 5, upserted: 4, skipped: 1, took 1.5s")
}

func TestRootCmd_IngestFailure(t *testing.T) {
	ingest := &fakeIngestion{ingestFn: func(url, name string, force bool) (*domain.IngestResult, error) {
		return nil, domain.ErrLockNotAcquired
	}}

	_, err := execute(t, ingest, nil, nil, "--url", "u", "--name", "n")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLockNotAcquired)
	assert.Contains(t, err.Error(), "another ingestion is running")
}

func TestRootCmd_NoServices(t *testing.T) {
	SetServices(nil, nil, nil, nil)
	rootCmd.SetArgs([]string{"--url", "u", "--name", "n"})
	defer rootCmd.SetArgs(nil)
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))

	err := Execute(context.Background())
	assert.EqualError(t, err, "ingestion service not configured")
}

func TestPopulateCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.yaml")
	require.NoError(t, os.WriteFile(path, []byte("documents:\n  - name: GDPR\n    url: http://data.europa.eu/eli/reg/2016/679\n"), 0o644))
	ingest := &fakeIngestion{}

	out, err := execute(t, ingest, nil, nil, "populate", "--catalog", path)
	require.NoError(t, err)
	assert.Equal(t, []domain.CatalogEntry{{Name: "GDPR", URL: "http://data.europa.eu/eli/reg/2016/679"}}, ingest.lastCatalog)
	assert.Contains(t, out, "Populating 1 document(s)")
	assert.Contains(t, out, "Done.")
}

func TestPopulateCmd_ReportsFailures(t *testing.T) {
	ingest := &fakeIngestion{catalogFn: func(entries []domain.CatalogEntry) ([]*domain.IngestResult, error) {
		return []*domain.IngestResult{
			{Name: "GDPR", URL: "u1", TotalChunks: 1, Upserted: 1},
			{Name: "Broken", URL: "u2", Error: "fetch failed: 404"},
		}, nil
	}}

	out, err := execute(t, ingest, nil, nil, "populate", "--catalog", filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.EqualError(t, err, "1 of 2 documents failed")
	assert.Contains(t, out, "FAILED Broken (u2): fetch failed: 404")
	assert.Contains(t, out, "Ingested GDPR")
}

func TestCheckCmd(t *testing.T) {
	services := runtime.NewServices(domain.NewRuntimeConfig(domain.VectorIndexMemory, domain.RegistryBackendFile))
	services.SetEmbeddingService(mocks.NewMockEmbeddingService())

	out, err := execute(t, &fakeIngestion{stats: &domain.IndexStats{Dimension: 8, TotalVectorCount: 42}}, nil, services, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Embedding OK: mock-embedding-model returned 8 dimensions")
	assert.Contains(t, out, "dimension 8, 42 vectors")
	assert.Contains(t, out, "Chat model: not configured")
	assert.NotContains(t, out, "Ingestion lock")
	assert.Contains(t, out, "Index provider: memory, registry: file")
	assert.Contains(t, out, "Can ingest: no, can answer: no")

	_, err = execute(t, &fakeIngestion{stats: &domain.IndexStats{Dimension: 1536}}, nil, services, "check")
	assert.ErrorContains(t, err, "dimension mismatch")

	_, err = execute(t, &fakeIngestion{}, nil, services, "check")
	assert.ErrorIs(t, err, domain.ErrIndex)
}

func TestCheckCmd_PingsChatModelAndLock(t *testing.T) {
	services := runtime.NewServices(domain.NewRuntimeConfig(domain.VectorIndexMemory, domain.RegistryBackendFile))
	services.SetEmbeddingService(mocks.NewMockEmbeddingService())
	services.SetVectorIndex(mocks.NewMockVectorIndex())
	model := mocks.NewMockChatModel("ok")
	services.SetChatModel(model)
	lock := mocks.NewMockDistributedLock()
	ingest := &fakeIngestion{stats: &domain.IndexStats{Dimension: 8}}

	out, err := executeWithLock(t, ingest, nil, services, lock, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Chat model OK: mock-chat-model")
	assert.Contains(t, out, "Ingestion lock OK")
	assert.Contains(t, out, "Can ingest: yes, can answer: yes")

	model.PingErr = domain.ErrServiceUnavailable
	_, err = executeWithLock(t, ingest, nil, services, lock, "check")
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	assert.ErrorContains(t, err, "chat model ping failed")

	model.PingErr = nil
	lock.PingErr = errors.New("connection refused")
	_, err = executeWithLock(t, ingest, nil, services, lock, "check")
	assert.ErrorContains(t, err, "lock backend ping failed")
}

func TestCheckCmd_NoEmbedding(t *testing.T) {
	services := runtime.NewServices(domain.NewRuntimeConfig(domain.VectorIndexMemory, domain.RegistryBackendFile))

	_, err := execute(t, nil, nil, services, "check")
	assert.EqualError(t, err, "embedding service not configured")
}

func TestDocumentsCmd(t *testing.T) {
	added := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ingest := &fakeIngestion{entries: []*domain.RegistryEntry{{URL: "u1", Name: "GDPR", AddedAt: added, LastUpdated: added}}}

	out, err := execute(t, ingest, nil, nil, "documents")
	require.NoError(t, err)
	assert.Contains(t, out, "GDPR\n  u1\n  added 2024-05-01 10:00:00")

	out, err = execute(t, &fakeIngestion{}, nil, nil, "documents")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents ingested.")

	out, err = execute(t, ingest, nil, nil, "documents", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "GDPR"`)
}

func TestAskCmd(t *testing.T) {
	chat := &fakeChat{answer: &domain.Answer{
		Response: "Consent is one of six lawful bases.",
		Sources:  []domain.Source{{Name: "GDPR", URL: "http://data.europa.eu/eli/reg/2016/679", Relevance: 0.853}},
	}}

	out, err := execute(t, nil, chat, nil, "ask", "When", "is", "consent", "required?")
	require.NoError(t, err)
	assert.Contains(t, out, "Consent is one of six lawful bases.")
	assert.Contains(t, out, "GDPR (85% match) http://data.europa.eu/eli/reg/2016/679")
}

func TestAskCmd_JSONTranscript(t *testing.T) {
	chat := &fakeChat{answer: &domain.Answer{Response: "Yes.", Sources: []domain.Source{}}}

	out, err := execute(t, nil, chat, nil, "ask", "--json", "Is it?")
	require.NoError(t, err)
	assert.Contains(t, out, `"role": "user"`)
	assert.Contains(t, out, `"content": "Is it?"`)
	assert.Contains(t, out, `"role": "assistant"`)
}

func TestAskCmd_Failure(t *testing.T) {
	_, err := execute(t, nil, &fakeChat{err: errors.Join(domain.ErrCompletion, errors.New("timeout"))}, nil, "ask", "Q?")
	assert.ErrorIs(t, err, domain.ErrCompletion)

	_, err = execute(t, nil, nil, nil, "ask")
	assert.Error(t, err)
}

func TestFormatRelevance(t *testing.T) {
	assert.Equal(t, "85% match", formatRelevance(0.853))
	assert.Equal(t, "100% match", formatRelevance(1))
}

func TestVerboseLowersLogLevel(t *testing.T) {
	defer LogLevel.Set(slog.LevelInfo)

	_, err := execute(t, nil, nil, nil, "documents")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, LogLevel.Level())

	_, err = execute(t, nil, nil, nil, "documents", "--verbose")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, LogLevel.Level())
}
