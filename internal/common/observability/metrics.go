// internal/common/observability/metrics.go
package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds the workflow service instruments.
type Metrics struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider
	meter    metric.Meter

	TransitionsTotal   metric.Int64Counter
	TransitionDuration metric.Float64Histogram
	RemoteCallsTotal   metric.Int64Counter
	RemoteCallDuration metric.Float64Histogram
	BusyConflictsTotal metric.Int64Counter
}

// NewMetrics builds an OpenTelemetry meter backed by a Prometheus registry.
func NewMetrics(serviceName string) (*Metrics, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	m := &Metrics{
		registry: registry,
		provider: provider,
		meter:    meter,
	}

	m.TransitionsTotal, err = meter.Int64Counter(
		"workflow_transitions_total",
		metric.WithDescription("Total status transitions attempted, by from/to/role/outcome"),
	)
	if err != nil {
		return nil, err
	}

	m.TransitionDuration, err = meter.Float64Histogram(
		"workflow_transition_duration_seconds",
		metric.WithDescription("Time spent processing a transition end to end"),
	)
	if err != nil {
		return nil, err
	}

	m.RemoteCallsTotal, err = meter.Int64Counter(
		"loan_service_calls_total",
		metric.WithDescription("Calls made to the remote loan service, by operation/outcome"),
	)
	if err != nil {
		return nil, err
	}

	m.RemoteCallDuration, err = meter.Float64Histogram(
		"loan_service_call_duration_seconds",
		metric.WithDescription("Latency of remote loan service calls"),
	)
	if err != nil {
		return nil, err
	}

	m.BusyConflictsTotal, err = meter.Int64Counter(
		"workflow_busy_conflicts_total",
		metric.WithDescription("Transitions refused because the application was already being processed"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Registry exposes the Prometheus registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Shutdown flushes the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.provider != nil {
		return m.provider.Shutdown(ctx)
	}
	return nil
}

// RecordDuration is a helper for timing a block with a histogram.
func RecordDuration(ctx context.Context, h metric.Float64Histogram, start time.Time, opts ...metric.RecordOption) {
	h.Record(ctx, time.Since(start).Seconds(), opts...)
}
