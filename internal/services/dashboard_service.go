package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"volcanotrends/internal/charts"
	"volcanotrends/internal/dataprocessing"
	"volcanotrends/internal/exporter"
	"volcanotrends/internal/infrastructure"
	"volcanotrends/pkg/contracts/domain"
)

// DatasetLoader produces a fully parsed dataset
type DatasetLoader interface {
	Load(ctx context.Context) (*dataprocessing.Dataset, error)
}

// ChartRenderer draws one chart dataset as an image
type ChartRenderer interface {
	Render(ctx context.Context, kind string, set domain.ChartSet, size charts.Size) ([]byte, error)
}

// DatasetInfo describes the dataset currently being served
type DatasetInfo struct {
	Loaded    bool                 `json:"loaded"`
	Source    domain.DatasetSource `json:"source,omitempty"`
	Location  string               `json:"location,omitempty"`
	Records   int                  `json:"records"`
	LoadedAt  time.Time            `json:"loaded_at,omitempty"`
	Synthetic bool                 `json:"synthetic"`
}

// DashboardService serves snapshots, charts and exports of the loaded dataset
type DashboardService struct {
	mu      sync.RWMutex
	dataset *dataprocessing.Dataset

	// reloading serializes Load calls
	reloading sync.Mutex

	loader   DatasetLoader
	renderer ChartRenderer
	opts     dataprocessing.DashboardOptions
	logger   *slog.Logger
	metrics  *infrastructure.DashboardMetrics
}

// NewDashboardService creates a dashboard service. Load must succeed before
// any read method returns data. metrics may be nil.
func NewDashboardService(loader DatasetLoader, renderer ChartRenderer, opts dataprocessing.DashboardOptions, logger *slog.Logger, metrics *infrastructure.DashboardMetrics) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		loader:   loader,
		renderer: renderer,
		opts:     opts,
		logger:   infrastructure.WithComponent(logger, "dashboard_service"),
		metrics:  metrics,
	}
}

// Load reads the dataset and makes it the one served. On error the previous
// dataset, if any, stays in place.
func (s *DashboardService) Load(ctx context.Context) (DatasetInfo, error) {
	s.reloading.Lock()
	defer s.reloading.Unlock()
	return s.load(ctx)
}

// Reload is Load for callers that must not queue behind a running load
func (s *DashboardService) Reload(ctx context.Context) (DatasetInfo, error) {
	if !s.reloading.TryLock() {
		return DatasetInfo{}, ErrReloadInProgress
	}
	defer s.reloading.Unlock()
	return s.load(ctx)
}

func (s *DashboardService) load(ctx context.Context) (DatasetInfo, error) {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "dataset load failed", slog.String("error", err.Error()))
		return DatasetInfo{}, fmt.Errorf("load dataset: %w", err)
	}

	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()

	info := describe(ds)
	s.logger.InfoContext(ctx, "dataset ready",
		slog.String("source", string(info.Source)),
		slog.Int("records", info.Records),
		slog.Bool("synthetic", info.Synthetic))
	return info, nil
}

// Info reports the dataset being served without failing when none is loaded
func (s *DashboardService) Info() DatasetInfo {
	s.mu.RLock()
	ds := s.dataset
	s.mu.RUnlock()
	if ds == nil {
		return DatasetInfo{}
	}
	return describe(ds)
}

// Dataset returns the dataset being served
func (s *DashboardService) Dataset() (*dataprocessing.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, ErrDatasetNotLoaded
	}
	return s.dataset, nil
}

// Snapshot builds the full dashboard view of the current dataset
func (s *DashboardService) Snapshot(ctx context.Context) (domain.Dashboard, error) {
	ds, err := s.Dataset()
	if err != nil {
		return domain.Dashboard{}, err
	}
	return s.snapshot(ctx, ds), nil
}

func (s *DashboardService) snapshot(ctx context.Context, ds *dataprocessing.Dataset) domain.Dashboard {
	ctx, span := infrastructure.StartSpan(ctx, "dashboard.snapshot",
		attribute.Int("dataset.records", ds.Len()))
	defer span.End()

	start := time.Now()
	dash := dataprocessing.BuildDashboard(ds, s.opts)
	s.metrics.RecordSnapshot(ctx, time.Since(start))
	return dash
}

// Stats returns the scalar dashboard widgets
func (s *DashboardService) Stats(ctx context.Context) (domain.Stats, error) {
	dash, err := s.Snapshot(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return dash.Stats, nil
}

// Insights returns the three generated sentences
func (s *DashboardService) Insights(ctx context.Context) (domain.Insights, error) {
	dash, err := s.Snapshot(ctx)
	if err != nil {
		return domain.Insights{}, err
	}
	return dash.Insights, nil
}

// Records returns a copy of the dataset records
func (s *DashboardService) Records(ctx context.Context) ([]domain.Record, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.Records(), nil
}

// Genres returns the limit most frequent top genres. limit <= 0 keeps the
// configured default.
func (s *DashboardService) Genres(ctx context.Context, limit int) ([]domain.GenreCount, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	opts := s.opts.Genres
	if limit > 0 {
		opts.TopK = limit
	}
	return dataprocessing.GenreFrequency(ds.Records(), opts), nil
}

// ChartData returns the dataset behind one chart
func (s *DashboardService) ChartData(ctx context.Context, kind string) (interface{}, error) {
	if !charts.IsKnown(kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
	dash, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	switch kind {
	case charts.KindTimeSeries:
		return dash.Charts.TimeSeries, nil
	case charts.KindYearlyVEI:
		return dash.Charts.YearlyVEI, nil
	case charts.KindGenres:
		return dash.Charts.Genres, nil
	default:
		return dash.Charts.Scatter, nil
	}
}

// RenderChart draws one chart of the current dataset as a PNG
func (s *DashboardService) RenderChart(ctx context.Context, kind string, size charts.Size) ([]byte, error) {
	if !charts.IsKnown(kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
	dash, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	img, err := s.renderer.Render(ctx, kind, dash.Charts, size)
	if err != nil {
		return nil, fmt.Errorf("render %s chart: %w", kind, err)
	}
	return img, nil
}

// Export encodes the current dataset in format. The whole file is built in
// memory so a failure never leaves a partial download.
func (s *DashboardService) Export(ctx context.Context, format exporter.Format) ([]byte, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	dash := s.snapshot(ctx, ds)

	var buf bytes.Buffer
	if err := exporter.Export(&buf, format, dash, ds.Records()); err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}

	s.logger.InfoContext(ctx, "dataset exported",
		slog.String("format", string(format)),
		slog.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func describe(ds *dataprocessing.Dataset) DatasetInfo {
	return DatasetInfo{
		Loaded:    true,
		Source:    ds.Source(),
		Location:  ds.Location(),
		Records:   ds.Len(),
		LoadedAt:  ds.LoadedAt(),
		Synthetic: ds.IsSynthetic(),
	}
}
