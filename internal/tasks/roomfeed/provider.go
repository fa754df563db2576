package roomfeed

import (
	"context"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet 暴露房间消息分发相关的构造函数。
var ProviderSet = wire.NewSet(
	ProvideComponent,
	ProvidePublisher,
	ProvideSubscriber,
	NewHub,
	ProvideAnnouncer,
	ProvideRunner,
)

// ProvideComponent 在配置了 ProjectID 时初始化 Pub/Sub 组件，否则返回 nil 并退化为单实例本地分发。
func ProvideComponent(ctx context.Context, cfg gcpubsub.Config, deps gcpubsub.Dependencies) (*gcpubsub.Component, func(), error) {
	if cfg.ProjectID == "" {
		if deps.Logger != nil {
			log.NewHelper(deps.Logger).Info("roomfeed: pubsub not configured, using in-process dispatch only")
		}
		return nil, func() {}, nil
	}
	return gcpubsub.NewComponent(ctx, cfg, deps)
}

// ProvidePublisher 返回组件的 Publisher；组件为空时返回 nil。
func ProvidePublisher(component *gcpubsub.Component) gcpubsub.Publisher {
	if component == nil {
		return nil
	}
	return gcpubsub.ProvidePublisher(component)
}

// ProvideSubscriber 返回组件的 Subscriber；组件为空时返回 nil。
func ProvideSubscriber(component *gcpubsub.Component) gcpubsub.Subscriber {
	if component == nil {
		return nil
	}
	return gcpubsub.ProvideSubscriber(component)
}

// ProvideAnnouncer 装配本地 Announcer。
func ProvideAnnouncer(hub *Hub, logger log.Logger) *Announcer {
	return NewAnnouncer(hub, logger)
}

// ProvideRunner 装配 Runner；未配置订阅时返回 nil。
func ProvideRunner(subscriber gcpubsub.Subscriber, hub *Hub, logger log.Logger) *Runner {
	if subscriber == nil {
		return nil
	}
	runner, err := NewRunner(RunnerParams{
		Subscriber: subscriber,
		Hub:        hub,
		Logger:     logger,
	})
	if err != nil {
		log.NewHelper(logger).Errorw("msg", "init roomfeed runner failed", "error", err)
		return nil
	}
	return runner
}
