package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"volcanotrends/internal/config"
	apierrors "volcanotrends/internal/errors"
	"volcanotrends/internal/infrastructure"
	"volcanotrends/pkg/contracts/domain"
)

// maxDatasetBytes caps a remote download
const maxDatasetBytes = 64 << 20

// Loader reads the merged dataset from a file or URL and applies the
// fallback policy.
type Loader struct {
	cfg      config.DatasetConfig
	client   *http.Client
	fallback RecordSource
	logger   *slog.Logger
	metrics  *infrastructure.DashboardMetrics
	now      func() time.Time
}

// LoaderOption customizes a Loader
type LoaderOption func(*Loader)

// WithHTTPClient replaces the client used for URL sources
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) { l.client = client }
}

// WithFallbackSource replaces the synthetic generator used on fallback
func WithFallbackSource(src RecordSource) LoaderOption {
	return func(l *Loader) { l.fallback = src }
}

// NewLoader creates a loader for cfg. metrics may be nil.
func NewLoader(cfg config.DatasetConfig, logger *slog.Logger, metrics *infrastructure.DashboardMetrics, opts ...LoaderOption) *Loader {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = config.DefaultFetchTimeout
	}
	l := &Loader{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.FetchTimeout},
		fallback: NewSyntheticGenerator(cfg.SyntheticSeed),
		logger:   infrastructure.WithComponent(logger, "dataset_loader"),
		metrics:  metrics,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and parses the configured source.
//
// When the source cannot be read or parsed, or is empty and FallbackEmpty is
// set, a synthetic dataset is returned instead. With Fallback disabled the
// source error is returned. Context cancellation is always returned.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	kind := l.sourceKind()
	ctx, span := infrastructure.StartSpan(ctx, "dataset.load",
		attribute.String("dataset.source", string(kind)),
		attribute.String("dataset.location", l.cfg.Source))
	defer span.End()

	start := time.Now()
	records, err := l.read(ctx, kind)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	if err != nil {
		infrastructure.RecordError(ctx, err)
		if !l.cfg.Fallback {
			return nil, err
		}
		l.logger.WarnContext(ctx, "dataset unavailable, using synthetic data",
			slog.String("source", l.cfg.Source),
			slog.String("error", err.Error()))
		return l.loadFallback(ctx)
	}

	if len(records) == 0 && l.cfg.FallbackEmpty {
		l.logger.WarnContext(ctx, "dataset is empty, using synthetic data",
			slog.String("source", l.cfg.Source))
		return l.loadFallback(ctx)
	}

	ds := NewDataset(records, kind, l.cfg.Source, l.now())
	l.metrics.RecordDatasetLoad(ctx, string(kind), false, ds.Len())
	infrastructure.AddSpanEvent(ctx, "dataset.parsed", attribute.Int("records", ds.Len()))

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("source", string(kind)),
		slog.String("location", l.cfg.Source),
		slog.Int("records", ds.Len()),
		slog.Duration("duration", time.Since(start)))

	return ds, nil
}

func (l *Loader) loadFallback(ctx context.Context) (*Dataset, error) {
	records, err := l.fallback.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("synthetic fallback: %w", err)
	}

	ds := NewDataset(records, domain.SourceSynthetic, "", l.now())
	l.metrics.RecordDatasetLoad(ctx, string(domain.SourceSynthetic), true, ds.Len())
	infrastructure.AddSpanEvent(ctx, "dataset.fallback", attribute.Int("records", ds.Len()))

	l.logger.InfoContext(ctx, "synthetic dataset generated", slog.Int("records", ds.Len()))
	return ds, nil
}

func (l *Loader) sourceKind() domain.DatasetSource {
	if IsURL(l.cfg.Source) {
		return domain.SourceURL
	}
	return domain.SourceFile
}

func (l *Loader) read(ctx context.Context, kind domain.DatasetSource) ([]domain.Record, error) {
	if kind == domain.SourceURL {
		return l.fetch(ctx)
	}
	return l.readFile()
}

func (l *Loader) readFile() ([]domain.Record, error) {
	f, err := os.Open(l.cfg.Source)
	if err != nil {
		return nil, apierrors.NewStorageError("open dataset", err).WithContext("path", l.cfg.Source)
	}
	defer f.Close()

	records, err := ParseCSV(f)
	if err != nil {
		return nil, apierrors.NewParsingError("parse dataset", err).WithContext("path", l.cfg.Source)
	}
	return records, nil
}

func (l *Loader) fetch(ctx context.Context) ([]domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.cfg.Source, nil)
	if err != nil {
		return nil, apierrors.NewNetworkError("build dataset request", err).WithContext("url", l.cfg.Source)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkError("fetch dataset", err).WithContext("url", l.cfg.Source)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierrors.NewNetworkError(fmt.Sprintf("fetch dataset: unexpected status %d", resp.StatusCode), nil).
			WithContext("url", l.cfg.Source)
	}

	records, err := ParseCSV(io.LimitReader(resp.Body, maxDatasetBytes))
	if err != nil {
		return nil, apierrors.NewParsingError("parse dataset", err).WithContext("url", l.cfg.Source)
	}
	return records, nil
}

// IsURL reports whether source names an http or https resource
func IsURL(source string) bool {
	lower := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
