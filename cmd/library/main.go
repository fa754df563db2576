// Package main 提供片单与剧集房间 HTTP 服务的启动入口。
// 负责加载配置、初始化依赖（通过 Wire）、启动 HTTP Server、房间消息订阅与 Outbox 发布器，并优雅关闭。
package main

import (
	"context"
	"errors"
	"flag"
	"sync"

	configloader "github.com/bionicotaku/anima-library/internal/infrastructure/configloader"
	"github.com/bionicotaku/anima-library/internal/services"
	"github.com/bionicotaku/anima-library/internal/tasks/roomfeed"
	obswire "github.com/bionicotaku/lingo-utils/observability"
	outboxpublisher "github.com/bionicotaku/lingo-utils/outbox/publisher"
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"

	_ "go.uber.org/automaxprocs" // 自动设置 GOMAXPROCS 为容器 CPU 配额
)

// newApp 负责组装 Kratos 应用：注入观测组件、日志器、服务元信息以及 HTTP Server。
//
// 参数：
//   - obsCmp: 可观测性组件（Tracer/Meter Provider），Wire 自动管理生命周期
//   - logger: 结构化日志器（gclog），包含 trace_id/span_id 关联
//   - hs: 配置完整的 HTTP Server（已注册路由和中间件）
//   - meta: 服务元信息（Name/Version/Environment/InstanceID）
//   - registry: 用户会话注册表，停止时统一关闭房间订阅
//   - feed: 房间消息订阅 Runner，未配置 Pub/Sub 时为 nil
//   - relay: Outbox 发布器，把事务内写入的房间事件发布到 Pub/Sub，未配置 topic 时为 nil
func newApp(
	_ *obswire.Component,
	logger log.Logger,
	hs *khttp.Server,
	meta configloader.ServiceInfo,
	registry *services.SessionRegistry,
	feed *roomfeed.Runner,
	relay *outboxpublisher.Runner,
) *kratos.App {
	options := []kratos.Option{
		kratos.ID(meta.InstanceID),
		kratos.Name(meta.Name),
		kratos.Version(meta.Version),
		kratos.Metadata(map[string]string{"environment": meta.Environment}),
		kratos.Logger(logger),
		kratos.Server(hs),
	}

	type worker struct {
		name string
		run  func(context.Context) error
	}

	var workers []worker
	if feed != nil {
		workers = append(workers, worker{name: "roomfeed subscriber", run: feed.Run})
	}
	if relay != nil {
		workers = append(workers, worker{name: "outbox publisher", run: relay.Run})
	}

	var (
		wg      sync.WaitGroup
		cancels []context.CancelFunc
	)
	helper := log.NewHelper(logger)

	options = append(options,
		kratos.BeforeStart(func(ctx context.Context) error {
			cancels = make([]context.CancelFunc, len(workers))
			for i := range workers {
				runCtx, cancel := context.WithCancel(ctx)
				cancels[i] = cancel
				wg.Add(1)
				worker := workers[i]
				go func() {
					defer wg.Done()
					if err := worker.run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
						helper.Warnf("%s stopped: %v", worker.name, err)
					}
				}()
			}
			return nil
		}),
		kratos.AfterStop(func(ctx context.Context) error {
			for _, cancel := range cancels {
				if cancel != nil {
					cancel()
				}
			}
			if registry != nil {
				registry.Close()
			}
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-ctx.Done():
			case <-done:
			}
			return nil
		}),
	)

	return kratos.New(options...)
}

func main() {
	ctx := context.Background()

	// 1. 解析命令行参数：-conf 指定配置文件路径或目录
	confFlag := flag.String("conf", "", "config path or directory, eg: -conf configs/config.yaml")
	flag.Parse()

	// 2. 构造配置加载参数
	params := configloader.Params{
		ConfPath: *confFlag,
	}

	// 3. 通过 Wire 装配所有依赖并创建 Kratos App，装配顺序见 wire.go
	app, cleanupApp, err := wireApp(ctx, params)
	if err != nil {
		panic(err)
	}
	defer cleanupApp()

	// 4. 启动应用并阻塞，直到收到停止信号（SIGINT/SIGTERM）
	if err := app.Run(); err != nil {
		panic(err)
	}
}
