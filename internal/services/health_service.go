package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"volcanotrends/pkg/contracts"
)

// DatasetStatus reports which dataset, if any, is being served
type DatasetStatus interface {
	Info() DatasetInfo
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	datasets  DatasetStatus
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a health service. datasets may be nil, in which
// case readiness never reports the dataset as loaded.
func NewHealthService(version, buildTime string, datasets DatasetStatus, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		datasets:  datasets,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready once a dataset is being served
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	dataset := hs.checkDatasetHealth()
	status.Services["dataset"] = dataset

	if dataset.Status != "ready" {
		status.Status = "not_ready"
		hs.logger.WarnContext(ctx, "ReadinessCheck: not ready",
			slog.String("reason", dataset.Message))
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns the build's version information plus process uptime
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	if hs.version != "" {
		info.Version = hs.version
	}
	if hs.buildTime != "" {
		info.BuildTime = hs.buildTime
	}

	return map[string]interface{}{
		"version":      info.Version,
		"stage":        info.Stage,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"architecture": info.Architecture,
		"data_format":  info.DataFormat,
		"api_version":  info.APIVersion,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

func (hs *HealthService) checkDatasetHealth() ServiceHealth {
	if hs.datasets == nil {
		return ServiceHealth{Status: "not_ready", Message: "no dataset provider configured"}
	}

	info := hs.datasets.Info()
	if !info.Loaded {
		return ServiceHealth{Status: "not_ready", Message: "dataset not loaded"}
	}

	msg := fmt.Sprintf("%d records from %s", info.Records, info.Source)
	if info.Synthetic {
		msg += " (synthetic fallback)"
	}
	return ServiceHealth{
		Status:  "ready",
		Message: msg,
		Uptime:  time.Since(info.LoadedAt).Round(time.Second).String(),
	}
}
