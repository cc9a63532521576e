package http

import (
	"context"

	"volcanotrends/internal/charts"
	"volcanotrends/internal/exporter"
	"volcanotrends/internal/services"
	"volcanotrends/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the handlers need
type DashboardServiceInterface interface {
	Snapshot(ctx context.Context) (domain.Dashboard, error)
	Stats(ctx context.Context) (domain.Stats, error)
	Insights(ctx context.Context) (domain.Insights, error)
	Records(ctx context.Context) ([]domain.Record, error)
	Genres(ctx context.Context, limit int) ([]domain.GenreCount, error)
	ChartData(ctx context.Context, kind string) (interface{}, error)
	RenderChart(ctx context.Context, kind string, size charts.Size) ([]byte, error)
	Export(ctx context.Context, format exporter.Format) ([]byte, error)
	Reload(ctx context.Context) (services.DatasetInfo, error)
}

// HealthServiceInterface defines the health operations the handlers need
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
