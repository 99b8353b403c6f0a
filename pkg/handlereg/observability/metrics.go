package observability

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records registry metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordInsert records an insert attempt. ok is false when the identity was already live.
	RecordInsert(ctx context.Context, table string, ok bool)

	// RecordErase records an erase attempt. ok is false when the identity was absent.
	RecordErase(ctx context.Context, table string, ok bool)

	// RecordClear records a clear that removed the given number of entries.
	RecordClear(ctx context.Context, table string, removed int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	inserts          metric.Int64Counter
	insertRejections metric.Int64Counter
	erases           metric.Int64Counter
	eraseMisses      metric.Int64Counter
	liveEntries      metric.Int64UpDownCounter
	clearSize        metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("handlereg")

	inserts, err := meter.Int64Counter("handlereg.inserts",
		metric.WithDescription("Number of accepted inserts"),
	)
	if err != nil {
		return nil, err
	}

	insertRejections, err := meter.Int64Counter("handlereg.insert_rejections",
		metric.WithDescription("Number of inserts rejected as duplicate identities"),
	)
	if err != nil {
		return nil, err
	}

	erases, err := meter.Int64Counter("handlereg.erases",
		metric.WithDescription("Number of erased entries"),
	)
	if err != nil {
		return nil, err
	}

	eraseMisses, err := meter.Int64Counter("handlereg.erase_misses",
		metric.WithDescription("Number of erases of identities that were not live"),
	)
	if err != nil {
		return nil, err
	}

	liveEntries, err := meter.Int64UpDownCounter("handlereg.live_entries",
		metric.WithDescription("Number of live entries"),
	)
	if err != nil {
		return nil, err
	}

	clearSize, err := meter.Int64Histogram("handlereg.clear.size",
		metric.WithDescription("Entries removed per clear"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		inserts:          inserts,
		insertRejections: insertRejections,
		erases:           erases,
		eraseMisses:      eraseMisses,
		liveEntries:      liveEntries,
		clearSize:        clearSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordInsert records an insert attempt.
func (m *otelMetrics) RecordInsert(ctx context.Context, table string, ok bool) {
	attrs := metric.WithAttributes(attribute.String("table", table))
	if !ok {
		m.insertRejections.Add(ctx, 1, attrs)
		return
	}
	m.inserts.Add(ctx, 1, attrs)
	m.liveEntries.Add(ctx, 1, attrs)
}

// RecordErase records an erase attempt.
func (m *otelMetrics) RecordErase(ctx context.Context, table string, ok bool) {
	attrs := metric.WithAttributes(attribute.String("table", table))
	if !ok {
		m.eraseMisses.Add(ctx, 1, attrs)
		return
	}
	m.erases.Add(ctx, 1, attrs)
	m.liveEntries.Add(ctx, -1, attrs)
}

// RecordClear records a clear.
func (m *otelMetrics) RecordClear(ctx context.Context, table string, removed int) {
	attrs := metric.WithAttributes(attribute.String("table", table))
	m.clearSize.Record(ctx, int64(removed), attrs)
	m.liveEntries.Add(ctx, -int64(removed), attrs)
}
