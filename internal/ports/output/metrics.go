package output

import "time"

// MetricsCollector defines the secondary port for metrics collection.
type MetricsCollector interface {
	// IncGenerations increments the contour generation counter.
	IncGenerations(success bool)

	// ObserveGenerationDuration records end-to-end pipeline duration.
	ObserveGenerationDuration(duration time.Duration)

	// IncElevationBatches increments the elevation batch counter.
	IncElevationBatches(success bool)

	// ObserveElevationDuration records one elevation batch duration.
	ObserveElevationDuration(duration time.Duration)

	// IncExportFallbacks increments the fallback export counter.
	IncExportFallbacks()

	// IncUploads increments the storage upload counter.
	IncUploads(success bool)

	// ObserveUploadDuration records storage upload duration.
	ObserveUploadDuration(duration time.Duration)
}

// NoOpMetrics is a no-op implementation of MetricsCollector.
type NoOpMetrics struct{}

// IncGenerations implements MetricsCollector.
func (n *NoOpMetrics) IncGenerations(_ bool) {}

// ObserveGenerationDuration implements MetricsCollector.
func (n *NoOpMetrics) ObserveGenerationDuration(_ time.Duration) {}

// IncElevationBatches implements MetricsCollector.
func (n *NoOpMetrics) IncElevationBatches(_ bool) {}

// ObserveElevationDuration implements MetricsCollector.
func (n *NoOpMetrics) ObserveElevationDuration(_ time.Duration) {}

// IncExportFallbacks implements MetricsCollector.
func (n *NoOpMetrics) IncExportFallbacks() {}

// IncUploads implements MetricsCollector.
func (n *NoOpMetrics) IncUploads(_ bool) {}

// ObserveUploadDuration implements MetricsCollector.
func (n *NoOpMetrics) ObserveUploadDuration(_ time.Duration) {}
