package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulens/eulens/internal/adapters/driven/file"
	"github.com/eulens/eulens/internal/config"
	"github.com/eulens/eulens/internal/core/domain"
)

// fakeProviders serves the OpenAI embeddings and chat endpoints and one
// source document. Every text embeds to the same vector.
func fakeProviders(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		data := make([]map[string]any, len(req.Input))
		for i := range req.Input {
			vec := make([]float32, 1536)
			vec[0] = 1
			data[i] = map[string]any{"object": "embedding", "index": i, "embedding": vec}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data, "model": "text-embedding-ada-002"})
	})
	mux.HandleFunc("POST /v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Article 6 lists six lawful bases."},"finish_reason":"stop"}]}`))
	})
	mux.HandleFunc("GET /collections", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"collections":[]},"status":"ok"}`))
	})
	mux.HandleFunc("GET /gdpr", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><p>Processing shall be lawful. Consent must be freely given.</p></body></html>`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		AI: domain.AISettings{
			Embedding: domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk-test", BaseURL: baseURL + "/v1"},
			LLM:       domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk-test", BaseURL: baseURL + "/v1"},
		},
		IndexProvider:      domain.VectorIndexMemory,
		RegistryBackend:    domain.RegistryBackendFile,
		RegistryPath:       filepath.Join(t.TempDir(), "data", "document-registry.json"),
		TopK:               domain.DefaultTopK,
		RelevanceThreshold: domain.DefaultRelevanceThreshold,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_IngestThenAnswer(t *testing.T) {
	srv := fakeProviders(t)
	ctx := context.Background()

	a, err := New(ctx, testConfig(t, srv.URL), Options{Logger: quietLogger()})
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &file.Registry{}, a.Registry)
	assert.Nil(t, a.Lock)
	assert.Nil(t, a.Verifier)

	result, err := a.Ingestion.Ingest(ctx, srv.URL+"/gdpr", "GDPR", false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalChunks)
	assert.Equal(t, 1, result.Upserted)

	answer, err := a.Chat.Answer(ctx, "What makes processing lawful?")
	require.NoError(t, err)
	assert.Equal(t, "Article 6 lists six lawful bases.", answer.Response)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "GDPR", answer.Sources[0].Name)
	assert.Equal(t, srv.URL+"/gdpr", answer.Sources[0].URL)

	docs, err := a.Ingestion.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
}

func TestNew_LenientLeavesMissingProvidersUnset(t *testing.T) {
	cfg := testConfig(t, "http://unused")
	cfg.AI.Embedding.APIKey = ""
	cfg.AI.LLM.APIKey = ""
	cfg.IndexProvider = domain.VectorIndexPinecone

	a, err := New(context.Background(), cfg, Options{Logger: quietLogger()})
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Services.EmbeddingService())
	assert.Nil(t, a.Services.ChatModel())
	assert.Nil(t, a.Services.VectorIndex())

	_, err = a.Chat.Answer(context.Background(), "Q?")
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestNew_StrictFailsOnBadProvider(t *testing.T) {
	srv := fakeProviders(t)
	cfg := testConfig(t, srv.URL)
	cfg.IndexProvider = domain.VectorIndexPinecone

	_, err := New(context.Background(), cfg, Options{Strict: true, Logger: quietLogger()})
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestNew_StrictRejectsMemoryIndex(t *testing.T) {
	srv := fakeProviders(t)

	_, err := New(context.Background(), testConfig(t, srv.URL), Options{Strict: true, Logger: quietLogger()})
	assert.ErrorIs(t, err, domain.ErrInvalidProvider)
}

func TestNew_StrictValidatesEmbedding(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()
	cfg := testConfig(t, down.URL)
	cfg.IndexProvider = domain.VectorIndexQdrant
	cfg.Qdrant.URL = down.URL

	_, err := New(context.Background(), cfg, Options{Strict: true, Logger: quietLogger()})
	assert.ErrorIs(t, err, domain.ErrEmbedding)
}

func TestNew_StrictValidatesIndex(t *testing.T) {
	srv := fakeProviders(t)
	cfg := testConfig(t, srv.URL)
	cfg.IndexProvider = domain.VectorIndexQdrant
	cfg.Qdrant.URL = srv.URL + "/unreachable"

	_, err := New(context.Background(), cfg, Options{Strict: true, Logger: quietLogger()})
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestNew_StrictInstallsHealthyProviders(t *testing.T) {
	srv := fakeProviders(t)
	cfg := testConfig(t, srv.URL)
	cfg.IndexProvider = domain.VectorIndexQdrant
	cfg.Qdrant.URL = srv.URL

	a, err := New(context.Background(), cfg, Options{Strict: true, Logger: quietLogger()})
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Services.EmbeddingService())
	assert.NotNil(t, a.Services.VectorIndex())
	assert.True(t, a.Services.Config().CanAnswer())
}

func TestNew_LenientAcceptsMemoryIndex(t *testing.T) {
	a, err := New(context.Background(), testConfig(t, "http://unused"), Options{Logger: quietLogger()})
	require.NoError(t, err)
	defer a.Close()
	assert.True(t, a.Services.Config().IndexAvailable())
}

func TestNew_PostgresRegistryNeedsDatabase(t *testing.T) {
	cfg := testConfig(t, "http://unused")
	cfg.RegistryBackend = domain.RegistryBackendPostgres

	_, err := New(context.Background(), cfg, Options{Logger: quietLogger()})
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestNew_JWTSecretEnablesVerifier(t *testing.T) {
	cfg := testConfig(t, "http://unused")
	cfg.AuthJWTSecret = "secret"

	a, err := New(context.Background(), cfg, Options{Logger: quietLogger()})
	require.NoError(t, err)
	defer a.Close()
	assert.NotNil(t, a.Verifier)
}
