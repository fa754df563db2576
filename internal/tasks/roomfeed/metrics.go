package roomfeed

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "anima-library.roomfeed"

type metrics struct {
	applyCounter metric.Int64Counter
	lagHistogram metric.Int64Histogram
}

func newMetrics() *metrics {
	m := otel.GetMeterProvider().Meter(meterName)
	applyCounter, _ := m.Int64Counter("room_feed_apply_total")
	lagHistogram, _ := m.Int64Histogram("room_feed_event_lag_ms")
	return &metrics{applyCounter: applyCounter, lagHistogram: lagHistogram}
}

func (m *metrics) recordSuccess(ctx context.Context, occurred, now time.Time) {
	if m == nil || m.applyCounter == nil {
		return
	}
	m.applyCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "success")))
	if m.lagHistogram != nil && !occurred.IsZero() && occurred.Before(now) {
		m.lagHistogram.Record(ctx, now.Sub(occurred).Milliseconds(), metric.WithAttributes(attribute.String("result", "success")))
	}
}

func (m *metrics) recordFailure(ctx context.Context, reason string) {
	if m == nil || m.applyCounter == nil {
		return
	}
	m.applyCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", "failure"),
		attribute.String("reason", reason),
	))
}
