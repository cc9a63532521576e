package services

import (
	"errors"

	"volcanotrends/internal/charts"
	"volcanotrends/internal/exporter"
)

// Dashboard service errors
var (
	// Dataset errors
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	ErrReloadInProgress = errors.New("dataset reload already in progress")

	// Chart errors
	ErrUnknownChart = charts.ErrUnknownChart
	ErrNoChartData  = charts.ErrNoData

	// Export errors
	ErrUnsupportedFormat = exporter.ErrUnsupportedFormat
)
