package handlereg

import (
	"log/slog"

	"github.com/randalmurphal/handlereg/pkg/handlereg/config"
	"github.com/randalmurphal/handlereg/pkg/handlereg/observability"
)

// DefaultName is the table name used when WithName is not given.
const DefaultName = "registry"

// settings holds construction-time configuration for a Registry.
type settings struct {
	name           string
	capacity       int
	logger         *slog.Logger
	metricsEnabled bool
	metrics        observability.MetricsRecorder
	tracingEnabled bool
	spans          observability.SpanManager
}

func defaultSettings() settings {
	return settings{
		name:    DefaultName,
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures a Registry at construction.
type Option func(*settings)

// WithName sets the table name reported in logs, metrics, and spans.
// Empty names are ignored.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithCapacity reserves room for n entries up front, as Reserve(n) would.
func WithCapacity(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithLogger enables debug logging of reservations, duplicate inserts,
// clears, and audit failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter provider.
//
// Example:
//
//	otel.SetMeterProvider(provider)
//	meshes := handlereg.New[Mesh](handlereg.WithName("meshes"), handlereg.WithMetrics(true))
func WithMetrics(enabled bool) Option {
	return func(s *settings) {
		s.metricsEnabled = enabled
		if enabled {
			s.metrics = observability.NewMetricsRecorder()
		} else {
			s.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder installs a specific recorder. A nil recorder disables metrics.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(s *settings) {
		if m == nil {
			s.metricsEnabled = false
			s.metrics = observability.NoopMetrics{}
			return
		}
		s.metricsEnabled = true
		s.metrics = m
	}
}

// WithTracing enables an OpenTelemetry span around each Audit.
func WithTracing(enabled bool) Option {
	return func(s *settings) {
		s.tracingEnabled = enabled
		if enabled {
			s.spans = observability.NewSpanManager()
		} else {
			s.spans = observability.NoopSpanManager{}
		}
	}
}

// OptionsFromConfig translates a table description into options.
//
// Recognized keys: name (string), capacity (int), metrics (bool),
// tracing (bool). Missing keys leave the defaults in place.
func OptionsFromConfig(cfg config.Config) []Option {
	var opts []Option
	if name := cfg.String("name", ""); name != "" {
		opts = append(opts, WithName(name))
	}
	if n := cfg.Int("capacity", 0); n > 0 {
		opts = append(opts, WithCapacity(n))
	}
	if cfg.Has("metrics") {
		opts = append(opts, WithMetrics(cfg.Bool("metrics", false)))
	}
	if cfg.Has("tracing") {
		opts = append(opts, WithTracing(cfg.Bool("tracing", false)))
	}
	return opts
}
