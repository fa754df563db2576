// Package httpserver 负责装配入站 HTTP Server 及其中间件栈。
// 包括：追踪、恢复、metadata 传播、限流与日志中间件，以及可选的 otelhttp 指标采集。
package httpserver

import (
	"net/http"

	"github.com/bionicotaku/anima-library/internal/controllers"
	configloader "github.com/bionicotaku/anima-library/internal/infrastructure/configloader"

	obsTrace "github.com/bionicotaku/lingo-utils/observability/tracing"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/metadata"
	"github.com/go-kratos/kratos/v2/middleware/ratelimit"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

// HealthPath 是存活探针路径，不经过业务中间件。
const HealthPath = "/healthz"

// NewHTTPServer 构造配置完整的 Kratos HTTP Server 实例。
//
// 中间件链（按执行顺序）：
// 1. obsTrace.Server() - OpenTelemetry 追踪
// 2. recovery.Recovery() - Panic 恢复
// 3. metadata.Server() - 按前缀传播网关注入的 header
// 4. ratelimit.Server() - BBR 限流（可通过配置关闭）
// 5. logging.Server() - 结构化访问日志
//
// obs.Metrics.HTTPEnabled 为 true 时在最外层挂载 otelhttp Filter，健康检查不计入指标。
func NewHTTPServer(cfg configloader.ServerConfig, obs configloader.ObservabilityConfig, routes *controllers.Routes, logger log.Logger) *khttp.Server {
	mws := []middleware.Middleware{
		obsTrace.Server(),
		recovery.Recovery(),
		metadata.Server(metadata.WithPropagatedPrefix(cfg.MetadataKeys...)),
	}
	if cfg.RateLimitEnabled {
		mws = append(mws, ratelimit.Server())
	}
	mws = append(mws, logging.Server(logger))

	opts := []khttp.ServerOption{
		khttp.Middleware(mws...),
	}
	if obs.Metrics.HTTPEnabled {
		opts = append(opts, khttp.Filter(newMetricsFilter()))
	}
	if cfg.Network != "" {
		opts = append(opts, khttp.Network(cfg.Network))
	}
	if cfg.Address != "" {
		opts = append(opts, khttp.Address(cfg.Address))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, khttp.Timeout(cfg.Timeout))
	}

	srv := khttp.NewServer(opts...)
	srv.HandleFunc(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"SERVING"}`))
	})
	if routes != nil {
		routes.Register(srv)
	}
	return srv
}

// newMetricsFilter 构造 otelhttp Filter，采集请求延迟与状态码分布。
func newMetricsFilter() khttp.FilterFunc {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "anima-library.http",
			otelhttp.WithMeterProvider(otel.GetMeterProvider()),
			otelhttp.WithFilter(func(r *http.Request) bool {
				return r.URL.Path != HealthPath
			}),
		)
	}
}
