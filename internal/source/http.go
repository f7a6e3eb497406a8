package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rpggio/tacboard/internal/domain/tac"
	"github.com/rpggio/tacboard/internal/metrics"
	"github.com/rpggio/tacboard/internal/repository"
)

var (
	_ repository.DatasetSource = (*HTTPSource)(nil)
	_ repository.DatasetSource = FileSource{}
)

// maxBodyBytes caps the size of a fetched sheet.
const maxBodyBytes = 32 << 20

// HTTPSource fetches the published sheet as CSV.
type HTTPSource struct {
	url     string
	client  *http.Client
	opts    ParseOptions
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// HTTPConfig configures an HTTPSource.
type HTTPConfig struct {
	URL       string
	Timeout   time.Duration
	Normalize bool
	Client    *http.Client
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// NewHTTPSource creates a source for cfg.URL.
func NewHTTPSource(cfg HTTPConfig) *HTTPSource {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HTTPSource{
		url:     cfg.URL,
		client:  client,
		opts:    ParseOptions{Normalize: cfg.Normalize},
		logger:  logger,
		metrics: cfg.Metrics,
	}
}

// Load fetches and parses the sheet. It does not retry.
func (s *HTTPSource) Load(ctx context.Context) (tac.Dataset, error) {
	start := time.Now()
	records, err := s.fetch(ctx)
	elapsed := time.Since(start)
	s.metrics.ObserveLoad(elapsed, len(records), err)
	if err != nil {
		s.logger.ErrorContext(ctx, "dataset load failed", "url", s.url, "error", err)
		return tac.Dataset{}, err
	}
	s.logger.InfoContext(ctx, "dataset loaded", "url", s.url, "rows", len(records), "elapsed", elapsed)
	return tac.Dataset{Records: records, Source: s.url, LoadedAt: time.Now()}, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]tac.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s returned %s", repository.ErrUnavailable, s.url, resp.Status)
	}

	return Parse(io.LimitReader(resp.Body, maxBodyBytes), s.opts)
}
