// Package http implements the HTTP handlers of the dashboard server. Handlers
// stay thin: they parse and validate the request, call a service and format
// the response.
//
// # Handlers
//
//	DashboardHandler   /api/dashboard        snapshot, stats, insights, records,
//	                                         genres, chart data and reload
//	ChartHandler       /api/charts           server-rendered PNG charts
//	ExportHandler      /api/export           CSV and XLSX downloads
//	HealthHandler      /api/health           health, readiness and liveness
//	ClientLogHandler   /api/logs             errors reported by the browser
//	FrontendHandler    /                     the embedded dashboard page
//
// # Responses
//
// Successful JSON responses share one envelope:
//
//	{"status": "success", "data": ...}
//
// Failures are RFC 7807 problems written by errors.ErrorHandler. Service
// sentinels are mapped first:
//
//	services.ErrDatasetNotLoaded   503 DATASET_NOT_LOADED
//	services.ErrUnknownChart       404 CHART_NOT_FOUND
//	services.ErrUnsupportedFormat  404 FORMAT_NOT_FOUND
//	services.ErrNoChartData        422 NO_CHART_DATA
//	services.ErrReloadInProgress   409 RELOAD_IN_PROGRESS
//
// # Testing
//
// Handlers depend on DashboardServiceInterface and HealthServiceInterface and
// are tested with testify mocks behind httptest recorders.
package http
