//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

//go:generate go run github.com/google/wire/cmd/wire

package main

import (
	"context"

	"github.com/bionicotaku/anima-library/internal/controllers"
	configloader "github.com/bionicotaku/anima-library/internal/infrastructure/configloader"
	httpserver "github.com/bionicotaku/anima-library/internal/infrastructure/http_server"
	"github.com/bionicotaku/anima-library/internal/repositories"
	"github.com/bionicotaku/anima-library/internal/services"
	"github.com/bionicotaku/anima-library/internal/tasks/outbox"
	"github.com/bionicotaku/anima-library/internal/tasks/roomfeed"

	"github.com/bionicotaku/lingo-utils/gclog"
	obswire "github.com/bionicotaku/lingo-utils/observability"
	"github.com/bionicotaku/lingo-utils/pgxpoolx"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2"
	"github.com/google/wire"
)

// wireApp 构建整个 Kratos 应用，分阶段装配依赖。
//
// 依赖注入顺序:
//  1. 配置加载: configloader.ProviderSet 解析配置并派生组件配置
//  2. 基础设施: gclog → observability → pgxpoolx → txmanager
//  3. 房间消息分发: roomfeed.ProviderSet（Hub / Announcer / 可选 Pub/Sub Runner）
//     与 outbox.ProviderSet（可选 Outbox 发布器）
//  4. 业务层: repositories → services → controllers
//  5. 服务器: httpserver.ProviderSet 组装 HTTP Server
//  6. 应用: newApp 创建 Kratos App
func wireApp(context.Context, configloader.Params) (*kratos.App, func(), error) {
	panic(wire.Build(
		configloader.ProviderSet, // 配置加载与解析
		gclog.ProviderSet,        // 结构化日志
		obswire.ProviderSet,      // OpenTelemetry 追踪和指标
		pgxpoolx.ProviderSet,     // PostgreSQL 连接池
		txmanager.ProviderSet,    // 事务管理器
		roomfeed.ProviderSet,     // 房间消息分发
		outbox.ProviderSet,       // Outbox 发布器
		wire.Bind(new(services.MessageFeed), new(*roomfeed.Hub)),
		wire.Bind(new(services.MessageAnnouncer), new(*roomfeed.Announcer)),
		wire.Bind(new(services.OutboxEnqueuer), new(*repositories.OutboxRepository)),
		repositories.ProviderSet, // 数据访问层
		services.ProviderSet,     // 业务逻辑层
		controllers.ProviderSet,  // 控制器层（HTTP handlers）
		httpserver.ProviderSet,   // HTTP Server
		newApp,                   // 组装 Kratos 应用
	))
}

// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
// 依赖注入详细文档
// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
//
// ┌─────────────────────────────────────────────────────────────────────────┐
// │ 1. 配置加载层 (configloader.ProviderSet)                                │
// └─────────────────────────────────────────────────────────────────────────┘
//
//   - configloader.LoadRuntimeConfig(configloader.Params) (configloader.RuntimeConfig, error)
//       解析 YAML/JSON 配置并叠加 .env 与环境变量覆盖。
//
//   - configloader.ProvideServerConfig / ProvideObservabilitySettings / ProvideHandlerTimeouts
//       提供 HTTP Server、otelhttp 开关以及 Handler 超时。
//
//   - configloader.ProvidePgxConfig / ProvideTxConfig / ProvideSessionConfig
//       提供连接池、事务管理器以及会话注册表配置。
//
//   - configloader.ProvidePubSubConfig / ProvidePubSubDependencies
//       房间消息广播配置；ProjectID 为空时退化为单实例。
//
//   - configloader.ProvideOutboxConfig(configloader.ServiceInfo, configloader.MessagingConfig) (outboxcfg.Config, error)
//       Outbox schema 与发布器参数，经 Normalize/Validate 后返回。
//
// ┌─────────────────────────────────────────────────────────────────────────┐
// │ 2. 基础设施 (gclog / observability / pgxpoolx / txmanager)              │
// └─────────────────────────────────────────────────────────────────────────┘
//
//   - gclog.NewComponent(gclog.Config) (*gclog.Component, func(), error)
//   - gclog.ProvideLogger(*gclog.Component) log.Logger
//   - observability.NewComponent(context.Context, observability.ObservabilityConfig,
//                                  observability.ServiceInfo, log.Logger)
//                                  (*observability.Component, func(), error)
//   - pgxpoolx.ProvideComponent(context.Context, pgxpoolx.Config, log.Logger)
//                             (*pgxpoolx.Component, func(), error)
//   - pgxpoolx.ProvidePool(*pgxpoolx.Component) *pgxpool.Pool
//   - txmanager.NewComponent(txmanager.Config, *pgxpool.Pool, log.Logger)
//                             (*txmanager.Component, func(), error)
//   - txmanager.ProvideManager(*txmanager.Component) txmanager.Manager
//
// ┌─────────────────────────────────────────────────────────────────────────┐
// │ 3. 房间消息分发 (roomfeed.ProviderSet)                                  │
// └─────────────────────────────────────────────────────────────────────────┘
//
//   - roomfeed.ProvideComponent(context.Context, gcpubsub.Config, gcpubsub.Dependencies)
//                             (*gcpubsub.Component, func(), error)
//   - roomfeed.NewHub(log.Logger) *roomfeed.Hub
//       进程内按房间分发消息，绑定为 services.MessageFeed。
//   - roomfeed.ProvideAnnouncer(*roomfeed.Hub, log.Logger) *roomfeed.Announcer
//       事务提交后的本地分发，绑定为 services.MessageAnnouncer。
//   - roomfeed.ProvideRunner(gcpubsub.Subscriber, *roomfeed.Hub, log.Logger) *roomfeed.Runner
//       消费其他实例广播的消息；未配置订阅时为 nil。
//   - outbox.ProvideRunner(*repositories.OutboxRepository, gcpubsub.Publisher, gcpubsub.Config,
//                          outboxcfg.Config, log.Logger) *outboxpublisher.Runner
//       扫描 library.outbox_events 并发布到房间消息 topic，失败按退避重试；未配置 topic 时为 nil。
//
// ┌─────────────────────────────────────────────────────────────────────────┐
// │ 4. 业务层 (repositories/services/controllers)                           │
// └─────────────────────────────────────────────────────────────────────────┘
//
//   - repositories.NewLibraryAccountsRepository / NewLibraryEntriesRepository
//   - repositories.NewEpisodeRoomsRepository / NewRoomAccessRepository / NewRoomMessagesRepository
//   - repositories.NewOutboxRepository，绑定为 services.OutboxEnqueuer
//   - services.NewLibraryDirectory / NewEpisodeAiringClock / NewRoomAttestationService
//   - services.NewEpisodeRoomService / NewRoomMessageService / NewSessionRegistry
//   - controllers.NewBaseHandler / NewLibraryHandler / NewRoomHandler / NewSessionHandler / NewRoutes
//
// ┌─────────────────────────────────────────────────────────────────────────┐
// │ 5. 应用层                                                                │
// └─────────────────────────────────────────────────────────────────────────┘
//
//   - httpserver.NewHTTPServer(configloader.ServerConfig, configloader.ObservabilityConfig,
//                               *controllers.Routes, log.Logger) *http.Server
//   - newApp(*observability.Component, log.Logger, *http.Server, configloader.ServiceInfo,
//            *services.SessionRegistry, *roomfeed.Runner, *outboxpublisher.Runner) *kratos.App
