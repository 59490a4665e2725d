// Package app wires adapters and services from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/eulens/eulens/internal/adapters/driven/ai"
	"github.com/eulens/eulens/internal/adapters/driven/auth"
	"github.com/eulens/eulens/internal/adapters/driven/fetcher"
	"github.com/eulens/eulens/internal/adapters/driven/file"
	"github.com/eulens/eulens/internal/adapters/driven/memory"
	"github.com/eulens/eulens/internal/adapters/driven/pinecone"
	"github.com/eulens/eulens/internal/adapters/driven/postgres"
	"github.com/eulens/eulens/internal/adapters/driven/qdrant"
	redisadapter "github.com/eulens/eulens/internal/adapters/driven/redis"
	"github.com/eulens/eulens/internal/config"
	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
	"github.com/eulens/eulens/internal/core/services"
	"github.com/eulens/eulens/internal/normalisers"
	"github.com/eulens/eulens/internal/postprocessors"
	"github.com/eulens/eulens/internal/runtime"
)

// Options controls how strictly New treats provider failures
type Options struct {
	// Strict fails on any provider construction error. When false the
	// provider is left unset and requests fail with ErrConfigurationMissing.
	Strict bool

	Logger *slog.Logger
}

// App holds the wired services for one process
type App struct {
	Config    *config.Config
	Services  *runtime.Services
	Registry  driven.DocumentRegistry
	Lock      driven.DistributedLock
	Verifier  driven.TokenVerifier
	Ingestion *services.IngestionService
	Chat      *services.ChatService

	closers []func() error
}

// New builds every adapter named by cfg
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		Config:   cfg,
		Services: runtime.NewServices(domain.NewRuntimeConfig(cfg.IndexProvider, cfg.RegistryBackend)),
	}
	a.closers = append(a.closers, a.Services.Close)

	// soft returns err in strict mode, otherwise logs it and carries on
	soft := func(what string, err error) error {
		if opts.Strict {
			return fmt.Errorf("%s: %w", what, err)
		}
		logger.Warn("provider unavailable", "provider", what, "error", err)
		return nil
	}

	factory := ai.NewFactory()
	embedder, err := factory.CreateEmbeddingService(&cfg.AI.Embedding)
	if err == nil && embedder != nil {
		if opts.Strict {
			err = a.Services.ValidateAndSetEmbedding(ctx, embedder)
		} else {
			a.Services.SetEmbeddingService(embedder)
		}
	}
	if err != nil {
		if err := soft("embedding", err); err != nil {
			return nil, a.fail(err)
		}
	}

	chatModel, err := factory.CreateChatModel(&cfg.AI.LLM)
	if err != nil {
		if err := soft("chat model", err); err != nil {
			return nil, a.fail(err)
		}
	} else if chatModel != nil {
		a.Services.SetChatModel(chatModel)
	}

	var db *postgres.DB
	if cfg.DatabaseURL != "" && (cfg.IndexProvider == domain.VectorIndexPGVector || cfg.RegistryBackend == domain.RegistryBackendPostgres) {
		db, err = postgres.Connect(ctx, postgres.DefaultConfig(cfg.DatabaseURL))
		if err == nil {
			err = db.InitSchema(ctx)
		}
		if err != nil {
			if db != nil {
				db.Close()
			}
			return nil, a.fail(fmt.Errorf("postgres: %w", err))
		}
		a.closers = append(a.closers, db.Close)
	}

	index, err := newVectorIndex(ctx, cfg, db, embedder, opts.Strict)
	if err == nil {
		if c, ok := index.(io.Closer); ok {
			a.closers = append(a.closers, c.Close)
		}
		if opts.Strict {
			err = a.Services.ValidateAndSetVectorIndex(ctx, index)
		} else {
			a.Services.SetVectorIndex(index)
		}
	}
	if err != nil {
		if err := soft(string(cfg.IndexProvider), err); err != nil {
			return nil, a.fail(err)
		}
	}

	switch {
	case cfg.RegistryBackend == domain.RegistryBackendPostgres && db != nil:
		a.Registry = postgres.NewRegistryStore(db)
	case cfg.RegistryBackend == domain.RegistryBackendPostgres:
		return nil, a.fail(fmt.Errorf("%w: DATABASE_URL for postgres registry", domain.ErrConfigurationMissing))
	default:
		a.Registry = file.NewRegistry(cfg.RegistryPath, logger)
	}

	if cfg.RedisURL != "" {
		client, err := redisadapter.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, a.fail(err)
		}
		a.closers = append(a.closers, client.Close)
		a.Lock = redisadapter.NewLock(client)
	} else if db != nil {
		a.Lock = postgres.NewAdvisoryLock(db)
	}

	var limiter *rate.Limiter
	if cfg.IngestRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.IngestRateLimit), 1)
	}

	a.Ingestion = services.NewIngestionService(services.IngestionServiceConfig{
		Services:    a.Services,
		Fetcher:     fetcher.New(fetcher.Config{}),
		Registry:    a.Registry,
		Normalisers: normalisers.DefaultRegistry(),
		Pipeline:    postprocessors.DefaultPipeline(postprocessors.DefaultMaxChunkSize),
		Lock:        a.Lock,
		Limiter:     limiter,
		Logger:      logger,
	})

	a.Chat = services.NewChatService(services.ChatServiceConfig{
		Services:           a.Services,
		TopK:               cfg.TopK,
		RelevanceThreshold: cfg.RelevanceThreshold,
		Logger:             logger,
	})

	if cfg.AuthJWTSecret != "" {
		a.Verifier = auth.NewVerifier(cfg.AuthJWTSecret)
	}

	return a, nil
}

// newVectorIndex constructs the configured index client. The memory index
// is refused in strict mode: ingested vectors would vanish with the process.
func newVectorIndex(ctx context.Context, cfg *config.Config, db *postgres.DB, embedder driven.EmbeddingService, strict bool) (driven.VectorIndex, error) {
	switch cfg.IndexProvider {
	case domain.VectorIndexPinecone:
		pc := pinecone.DefaultConfig(cfg.Pinecone.APIKey, cfg.Pinecone.Index)
		pc.Environment = cfg.Pinecone.Environment
		pc.Host = cfg.Pinecone.Host
		pc.Namespace = cfg.Pinecone.Namespace
		return pinecone.NewIndex(ctx, pc)
	case domain.VectorIndexQdrant:
		qc := qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Qdrant.Collection,
		}
		if embedder != nil {
			qc.Dimension = embedder.Dimensions()
		}
		return qdrant.NewIndex(qc)
	case domain.VectorIndexPGVector:
		if db == nil {
			return nil, fmt.Errorf("%w: DATABASE_URL for pgvector", domain.ErrConfigurationMissing)
		}
		return postgres.NewVectorIndex(db), nil
	case domain.VectorIndexMemory:
		if strict {
			return nil, fmt.Errorf("%w: the memory index does not persist between processes", domain.ErrInvalidProvider)
		}
		return memory.NewIndex(), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, cfg.IndexProvider)
	}
}

// fail closes whatever was opened and returns err
func (a *App) fail(err error) error {
	return errors.Join(err, a.Close())
}

// Close releases connections in reverse order of creation
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
