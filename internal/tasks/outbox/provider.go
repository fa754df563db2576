// Package outbox 将 library.outbox_events 中的房间事件中继到 Pub/Sub。
// 发布器复用房间消息广播的 topic，其它实例的 roomfeed Runner 消费后做本地扇出。
package outbox

import (
	"github.com/bionicotaku/anima-library/internal/repositories"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	outboxpublisher "github.com/bionicotaku/lingo-utils/outbox/publisher"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"go.opentelemetry.io/otel"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
)

// MeterName 是 Outbox 发布器指标的 instrumentation scope。
const MeterName = "anima-library.outbox"

// ProviderSet 暴露 Outbox 发布器的构造函数。
var ProviderSet = wire.NewSet(ProvideRunner)

// ProvideRunner 将 Outbox 仓储与 Pub/Sub 发布器包装为 Runner。
// 未配置 topic 或发布器时返回 nil，事件保留在表中，待配置后由发布器补发。
func ProvideRunner(
	repo *repositories.OutboxRepository,
	publisher gcpubsub.Publisher,
	pubCfg gcpubsub.Config,
	cfg outboxcfg.Config,
	logger log.Logger,
) *outboxpublisher.Runner {
	if repo == nil || logger == nil {
		return nil
	}
	helper := log.NewHelper(logger)
	if pubCfg.TopicID == "" || publisher == nil {
		helper.Warn("skip initializing outbox runner: pubsub topic not configured")
		return nil
	}

	publisherCfg := cfg.Normalize().Publisher

	meterProvider := otel.GetMeterProvider()
	if !boolValue(publisherCfg.MetricsEnabled, true) {
		meterProvider = noopmetric.NewMeterProvider()
	}
	if boolValue(publisherCfg.LoggingEnabled, true) {
		helper.Infof("init outbox runner: topic=%s batch_size=%d workers=%d tick_interval=%s",
			pubCfg.TopicID, publisherCfg.BatchSize, publisherCfg.Workers, publisherCfg.TickInterval)
	}

	runner, err := outboxpublisher.NewRunner(outboxpublisher.RunnerParams{
		Store:     repo.Shared(),
		Publisher: publisher,
		Config:    publisherCfg,
		Logger:    logger,
		Meter:     meterProvider.Meter(MeterName),
	})
	if err != nil {
		helper.Errorw("msg", "init outbox runner failed", "error", err)
		return nil
	}
	return runner
}

func boolValue(ptr *bool, def bool) bool {
	if ptr == nil {
		return def
	}
	return *ptr
}
