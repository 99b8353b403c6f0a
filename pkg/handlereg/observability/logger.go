// Package observability provides opt-in observability for handle registries:
// structured logging, metrics, and tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features have no-op implementations when disabled. Nothing here runs
// on the lookup path; registries only report inserts, erases, and the
// comparatively rare bulk operations.
package observability

import (
	"log/slog"
)

// EnrichLogger adds registry context to a logger.
// Returns a new logger with table and instance fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "meshes", "7d1c...")
//	enriched.Info("uploading") // includes table, instance
func EnrichLogger(logger *slog.Logger, table, instance string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("table", table),
		slog.String("instance", instance),
	)
}

// LogReserve logs a capacity reservation.
func LogReserve(logger *slog.Logger, requested, capacity int) {
	if logger == nil {
		return
	}
	logger.Debug("registry reserved",
		slog.Int("requested", requested),
		slog.Int("capacity", capacity),
	)
}

// LogDuplicate logs a rejected insert of an identity that is already live.
func LogDuplicate(logger *slog.Logger, id uint64) {
	if logger == nil {
		return
	}
	logger.Debug("duplicate identity rejected",
		slog.Uint64("id", id),
	)
}

// LogClear logs removal of every entry.
func LogClear(logger *slog.Logger, removed int) {
	if logger == nil {
		return
	}
	logger.Debug("registry cleared",
		slog.Int("removed", removed),
	)
}

// LogAuditFailure logs a failed invariant check.
func LogAuditFailure(logger *slog.Logger, err error, size int) {
	if logger == nil {
		return
	}
	logger.Error("registry audit failed",
		slog.String("error", err.Error()),
		slog.Int("size", size),
	)
}
