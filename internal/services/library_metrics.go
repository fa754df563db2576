package services

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
)

var (
	libraryMetricsMu      sync.Mutex
	libraryMetricsEnabled bool
	cacheMutationCounter  metric.Int64Counter
	gateTransitionCounter metric.Int64Counter
)

const (
	cacheMutationMetricName  = "library_cache_mutations_total"
	gateTransitionMetricName = "room_gate_transitions_total"
)

var (
	attrOperation = attribute.Key("operation")
	attrResult    = attribute.Key("result")
	attrFrom      = attribute.Key("from")
	attrTo        = attribute.Key("to")
)

type libraryMetrics struct{}

func newLibraryMetrics() *libraryMetrics {
	libraryMetricsMu.Lock()
	defer libraryMetricsMu.Unlock()
	if !libraryMetricsEnabled {
		initLibraryMetricsLocked()
	}
	return &libraryMetrics{}
}

func initLibraryMetricsLocked() {
	provider := otel.GetMeterProvider()
	if provider == nil {
		provider = noopmetric.NewMeterProvider()
	}
	meter := provider.Meter("anima-library.services")

	var err error
	cacheMutationCounter, err = meter.Int64Counter(cacheMutationMetricName,
		metric.WithDescription("Library cache operations by outcome"))
	if err != nil {
		libraryMetricsEnabled = false
		return
	}
	gateTransitionCounter, err = meter.Int64Counter(gateTransitionMetricName,
		metric.WithDescription("Episode room gate state transitions"))
	if err != nil {
		libraryMetricsEnabled = false
		return
	}
	libraryMetricsEnabled = true
}

func (m *libraryMetrics) recordMutation(ctx context.Context, op string, err error) {
	if m == nil || !libraryMetricsEnabled || cacheMutationCounter == nil {
		return
	}
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrPermissionDenied):
		result = "permission_denied"
	default:
		result = "failure"
	}
	cacheMutationCounter.Add(ctx, 1, metric.WithAttributes(
		attrOperation.String(op),
		attrResult.String(result),
	))
}

func (m *libraryMetrics) recordGate(ctx context.Context, from, to string) {
	if m == nil || !libraryMetricsEnabled || gateTransitionCounter == nil || from == to {
		return
	}
	gateTransitionCounter.Add(ctx, 1, metric.WithAttributes(
		attrFrom.String(from),
		attrTo.String(to),
	))
}
