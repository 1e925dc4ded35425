package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"ytstats/pkg/contracts"
)

// DatasetProbe is the part of the dataset service the health checks need
type DatasetProbe interface {
	Summary(ctx context.Context) DatasetSummary
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	dataset   DatasetProbe
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

// NewHealthService creates a health service. dataset may be nil until the
// dataset has been loaded; readiness reports not_ready in that case.
func NewHealthService(dataset DatasetProbe, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", contracts.Version),
		slog.Bool("dataset_attached", dataset != nil))

	return &HealthService{
		version:   contracts.Version,
		dataset:   dataset,
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

// ReadinessCheck reports ready once a cleaned dataset is being served
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	dataset := hs.checkDatasetHealth(ctx)
	status.Services["dataset"] = dataset
	if dataset.Status != "ready" {
		status.Status = "not_ready"
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

// VersionResponse is the build information plus process uptime
type VersionResponse struct {
	contracts.VersionInfo
	StartTime     string  `json:"start_time"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Version returns version information
func (hs *HealthService) Version() VersionResponse {
	return VersionResponse{
		VersionInfo:   contracts.GetVersionInfo(),
		StartTime:     hs.startTime.Format(time.RFC3339),
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
	}
}

func (hs *HealthService) checkDatasetHealth(ctx context.Context) ServiceHealth {
	if hs.dataset == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: ErrDatasetUnavailable.Error(),
		}
	}

	summary := hs.dataset.Summary(ctx)
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d channels from %s", summary.Channels, summary.Source),
		Uptime:  time.Since(summary.LoadedAt).Round(time.Second).String(),
	}
}
