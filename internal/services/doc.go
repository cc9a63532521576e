// Package services holds the business logic between the HTTP handlers and
// the data processing packages.
//
// # Services
//
//	DashboardService  owns the loaded dataset and builds snapshots, chart
//	                  images and exports from it
//	HealthService     reports liveness, readiness and version information
//
// The dataset is immutable once loaded. DashboardService keeps the current
// one behind a sync.RWMutex; Reload builds a replacement outside the lock and
// swaps the pointer, so readers always see a complete dataset.
//
// # Errors
//
// Services return the sentinel errors in errors.go, wrapped with context.
// The transport layer maps them onto RFC 7807 problems:
//
//	if errors.Is(err, services.ErrDatasetNotLoaded) {
//	    // 503
//	}
package services
