package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
	"github.com/eulens/eulens/internal/core/ports/driving"
	"github.com/eulens/eulens/internal/runtime"
)

// Verify interface compliance
var _ driving.IngestionService = (*IngestionService)(nil)

// IngestLockName guards the registry against concurrent ingestion runs
const IngestLockName = "ingest:registry"

// DefaultIngestLockTTL bounds how long a crashed run can block others
const DefaultIngestLockTTL = 30 * time.Minute

// IngestionService builds the vector index from source documents.
// Each document goes through:
//  1. Fetch the raw body
//  2. Normalise by content type
//  3. Split into sentence chunks
//  4. Embed and upsert every chunk, one at a time
//  5. Record the document in the registry
type IngestionService struct {
	services    *runtime.Services
	fetcher     driven.DocumentFetcher
	registry    driven.DocumentRegistry
	normalisers driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline
	lock        driven.DistributedLock
	lockTTL     time.Duration
	limiter     *rate.Limiter
	now         func() time.Time
	logger      *slog.Logger
}

// IngestionServiceConfig holds dependencies for IngestionService.
type IngestionServiceConfig struct {
	Services    *runtime.Services
	Fetcher     driven.DocumentFetcher
	Registry    driven.DocumentRegistry
	Normalisers driven.NormaliserRegistry
	Pipeline    driven.PostProcessorPipeline

	// Lock, when set, is held for the whole of one ingestion
	Lock    driven.DistributedLock
	LockTTL time.Duration

	// Limiter, when set, paces embedding and upsert calls
	Limiter *rate.Limiter

	Now    func() time.Time
	Logger *slog.Logger
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(cfg IngestionServiceConfig) *IngestionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	ttl := cfg.LockTTL
	if ttl <= 0 {
		ttl = DefaultIngestLockTTL
	}

	return &IngestionService{
		services:    cfg.Services,
		fetcher:     cfg.Fetcher,
		registry:    cfg.Registry,
		normalisers: cfg.Normalisers,
		pipeline:    cfg.Pipeline,
		lock:        cfg.Lock,
		lockTTL:     ttl,
		limiter:     cfg.Limiter,
		now:         now,
		logger:      logger,
	}
}

// Ingest loads one document into the index.
// A fetch failure aborts before anything is written. Chunks that fail to
// embed or upsert are logged and skipped; the registry is still updated.
func (s *IngestionService) Ingest(ctx context.Context, url, name string, force bool) (*domain.IngestResult, error) {
	url, name = strings.TrimSpace(url), strings.TrimSpace(name)
	if url == "" || name == "" {
		return nil, fmt.Errorf("%w: url and name are required", domain.ErrInvalidInput)
	}

	embedder := s.services.EmbeddingService()
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding service", domain.ErrConfigurationMissing)
	}
	index := s.services.VectorIndex()
	if index == nil {
		return nil, fmt.Errorf("%w: vector index", domain.ErrConfigurationMissing)
	}

	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, IngestLockName, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire ingest lock: %w", err)
		}
		if !acquired {
			return nil, domain.ErrLockNotAcquired
		}
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx), IngestLockName); err != nil {
				s.logger.Warn("failed to release ingest lock", "error", err)
			}
		}()
	}

	start := s.now()
	s.logger.Info("starting ingestion", "name", name, "url", url, "force", force)

	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Error("failed to fetch document", "url", url, "error", err)
		return nil, wrapErr(domain.ErrFetch, err)
	}

	content := doc.Content
	if s.normalisers != nil {
		if n := s.normalisers.Get(doc.ContentType); n != nil {
			content = n.Normalise(content, doc.ContentType)
		}
	}
	if strings.TrimSpace(content) == "" {
		s.logger.Error("failed to fetch document content", "url", url, "content_type", doc.ContentType)
		return nil, fmt.Errorf("%w: %s returned no text", domain.ErrFetch, url)
	}

	if existing, err := s.registry.Get(ctx, url); err == nil {
		s.logger.Info("document already registered, re-ingesting",
			"url", url, "added_at", existing.AddedAt, "force", force)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	chunks := s.pipeline.Process(content)
	s.logger.Info("created chunks", "name", name, "chunks", len(chunks))

	result := &domain.IngestResult{
		Name:        name,
		URL:         url,
		TotalChunks: len(chunks),
	}

	refreshed := s.now()
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		refreshed = s.refreshLock(ctx, refreshed)
		s.logger.Debug("processing chunk", "name", name, "chunk_index", i, "total", len(chunks))

		meta := domain.DocumentChunk{
			Text:         chunk.Content,
			SourceURL:    url,
			DocumentName: name,
			ChunkIndex:   i,
			TotalChunks:  len(chunks),
		}
		if err := s.indexChunk(ctx, embedder, index, meta); err != nil {
			if errors.Is(err, errPacingAborted) || ctx.Err() != nil {
				return nil, err
			}
			s.logger.Warn("skipping chunk", "name", name, "chunk_index", i, "error", err)
			result.Skipped++
			continue
		}
		result.Upserted++
	}

	if _, err := s.registry.Record(ctx, url, name, s.now()); err != nil {
		s.logger.Error("failed to update document registry", "url", url, "error", err)
		return nil, fmt.Errorf("update registry: %w", err)
	}

	result.Duration = s.now().Sub(start)
	s.logger.Info("ingestion complete",
		"name", name,
		"chunks", result.TotalChunks,
		"upserted", result.Upserted,
		"skipped", result.Skipped,
		"duration", result.Duration,
	)
	return result, nil
}

// refreshLock extends the ingest lock once half its TTL has passed since
// the last refresh, so long documents do not outlive it. It returns the
// time of the latest refresh.
func (s *IngestionService) refreshLock(ctx context.Context, last time.Time) time.Time {
	if s.lock == nil {
		return last
	}
	now := s.now()
	if now.Sub(last) < s.lockTTL/2 {
		return last
	}
	if err := s.lock.Extend(ctx, IngestLockName, s.lockTTL); err != nil {
		s.logger.Warn("failed to extend ingest lock", "error", err)
		return last
	}
	return now
}

// indexChunk embeds one chunk and writes its vector
func (s *IngestionService) indexChunk(ctx context.Context, embedder driven.EmbeddingService, index driven.VectorIndex, chunk domain.DocumentChunk) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	values, err := embedder.EmbedQuery(ctx, chunk.Text)
	if err != nil {
		return wrapErr(domain.ErrEmbedding, err)
	}

	if err := s.wait(ctx); err != nil {
		return err
	}
	if err := index.Upsert(ctx, []*domain.IndexedVector{domain.NewIndexedVector(chunk, values)}); err != nil {
		return wrapErr(domain.ErrIndex, err)
	}
	return nil
}

// errPacingAborted means the limiter could not grant a call before the
// context ends, so the rest of the document cannot be processed either.
var errPacingAborted = errors.New("ingestion pacing aborted")

func (s *IngestionService) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", errPacingAborted, err)
	}
	return nil
}

// IngestCatalog ingests entries one after another.
// Failures are reported per entry; only cancellation stops the run.
func (s *IngestionService) IngestCatalog(ctx context.Context, entries []domain.CatalogEntry) ([]*domain.IngestResult, error) {
	results := make([]*domain.IngestResult, 0, len(entries))
	for _, entry := range entries {
		res, err := s.Ingest(ctx, entry.URL, entry.Name, false)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			s.logger.Error("catalog entry failed", "name", entry.Name, "url", entry.URL, "error", err)
			res = &domain.IngestResult{Name: entry.Name, URL: entry.URL, Error: err.Error()}
		}
		results = append(results, res)
	}
	return results, nil
}

// ListDocuments returns every registered document.
func (s *IngestionService) ListDocuments(ctx context.Context) ([]*domain.RegistryEntry, error) {
	return s.registry.List(ctx)
}

// IndexStats reports what the vector index currently holds.
func (s *IngestionService) IndexStats(ctx context.Context) (*domain.IndexStats, error) {
	index := s.services.VectorIndex()
	if index == nil {
		return nil, fmt.Errorf("%w: vector index", domain.ErrConfigurationMissing)
	}
	return index.Stats(ctx)
}
