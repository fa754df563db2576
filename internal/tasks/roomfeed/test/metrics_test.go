package roomfeed_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/bionicotaku/anima-library/internal/models/po"
	"github.com/bionicotaku/anima-library/internal/tasks/roomfeed"
	"github.com/bionicotaku/lingo-utils/gcpubsub"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// 不并行：替换全局 MeterProvider。
func TestRunner_RecordsApplyMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	logger := log.NewStdLogger(io.Discard)
	hub := roomfeed.NewHub(logger)
	valid := po.RoomMessage{
		MessageID: uuid.New(),
		RoomID:    uuid.New(),
		UserID:    "user-1",
		Body:      "hello",
		CreatedAt: time.Now().UTC().Add(-2 * time.Second),
	}
	stub := &stubSubscriber{messages: []*gcpubsub.Message{
		buildMessage(t, roomfeed.EventFromMessage(valid)),
		{ID: "bad", Data: []byte(`not json`)},
		{ID: "untimed", Data: []byte(`{"message_id":"` + uuid.NewString() + `","room_id":"` + valid.RoomID.String() + `","user_id":"u","body":"b"}`)},
	}}

	var delivered int
	hub.Subscribe(valid.RoomID, func(po.RoomMessage) { delivered++ })

	runner, err := roomfeed.NewRunner(roomfeed.RunnerParams{Subscriber: stub, Hub: hub, Logger: logger})
	require.NoError(t, err)
	require.NoError(t, runner.Run(context.Background()))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	var lagSamples uint64
	for _, scope := range rm.ScopeMetrics {
		if scope.Scope.Name != "anima-library.roomfeed" {
			continue
		}
		for _, m := range scope.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				if m.Name != "room_feed_apply_total" {
					continue
				}
				for _, dp := range data.DataPoints {
					result, _ := dp.Attributes.Value(attribute.Key("result"))
					key := result.AsString()
					if reason, ok := dp.Attributes.Value(attribute.Key("reason")); ok {
						key += ":" + reason.AsString()
					}
					counts[key] += dp.Value
				}
			case metricdata.Histogram[int64]:
				if m.Name != "room_feed_event_lag_ms" {
					continue
				}
				for _, dp := range data.DataPoints {
					lagSamples += dp.Count
				}
			}
		}
	}

	require.Equal(t, int64(1), counts["success"])
	require.Equal(t, int64(1), counts["failure:decode"])
	require.Equal(t, int64(1), counts["failure:invalid"], "missing created_at must be rejected")
	require.Equal(t, 1, delivered)
	require.Equal(t, uint64(1), lagSamples)
}
