// Package telemetry wires OpenTelemetry traces, metrics and logs, database
// instrumentation and Pyroscope profiling. Every provider degrades to a
// no-op when its signal is disabled.
package telemetry

import (
	"fmt"
	"time"

	"github.com/hexlet/taskmanager/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// ServiceVersion is reported as service.version on every signal
const ServiceVersion = "1.0.0"

const shutdownTimeout = 10 * time.Second

// Config holds the OTLP settings shared by all signals
type Config struct {
	TracesEnabled     bool
	MetricsEnabled    bool
	LogsEnabled       bool
	CollectorEndpoint string
	Insecure          bool
	ServiceName       string
	SamplingRatio     float64
	MetricsInterval   time.Duration
}

// FromAppConfig converts the telemetry section of the application config
func FromAppConfig(cfg config.TelemetryConfig) Config {
	return Config{
		TracesEnabled:     cfg.Enabled,
		MetricsEnabled:    cfg.MetricsEnabled,
		LogsEnabled:       cfg.LogsEnabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		Insecure:          cfg.Insecure,
		ServiceName:       cfg.ServiceName,
		SamplingRatio:     cfg.SamplingRatio,
		MetricsInterval:   cfg.MetricsInterval,
	}
}

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
