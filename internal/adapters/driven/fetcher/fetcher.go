// Package fetcher downloads source documents over HTTP.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentFetcher = (*HTTPFetcher)(nil)

const (
	// DefaultTimeout bounds a single download
	DefaultTimeout = 60 * time.Second

	// DefaultMaxBytes is the largest document body accepted
	DefaultMaxBytes = 32 << 20

	userAgent = "eulens-ingest/1.0"
)

// Config holds fetcher settings
type Config struct {
	Timeout  time.Duration
	MaxBytes int64
}

// HTTPFetcher performs plain GET requests without retries
type HTTPFetcher struct {
	httpClient *http.Client
	maxBytes   int64
}

// New creates a fetcher, filling zero config values with defaults
func New(cfg Config) *HTTPFetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxBytes:   cfg.MaxBytes,
	}
}

// Fetch GETs url and returns its body as text.
// Transport failures, non-2xx statuses and bodies over the size cap wrap
// domain.ErrFetch.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*domain.FetchedDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html, text/plain;q=0.9, */*;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned %d %s", domain.ErrFetch, url, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrFetch, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrFetch, url, f.maxBytes)
	}

	return &domain.FetchedDocument{
		URL:         url,
		Content:     string(body),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
