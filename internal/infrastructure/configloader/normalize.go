package configloader

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultHandlerTimeout  = 5 * time.Second
	defaultQueryTimeout    = 3 * time.Second
	defaultHTTPAddress     = ":8080"
	defaultSchema          = "library"
	defaultSessionIdleTTL  = 30 * time.Minute
	defaultSessionCleanup  = time.Minute
	defaultStreamWindow    = 200
	defaultUserInfoHeader  = "x-apigateway-api-userinfo"
	defaultMetadataPrefix  = "x-md-"
	defaultIdempotencyKey  = "x-md-idempotency-key"
	defaultPublishDeadline = 10 * time.Second
)

// bootstrapFile 对应 configs/config.yaml 的结构，时长字段使用 Go duration 字符串。
type bootstrapFile struct {
	Server        serverFile        `json:"server"`
	Data          dataFile          `json:"data"`
	Observability observabilityFile `json:"observability"`
	Messaging     messagingFile     `json:"messaging"`
	Session       sessionFile       `json:"session"`
}

type serverFile struct {
	HTTP struct {
		Network string `json:"network"`
		Addr    string `json:"addr"`
		Timeout string `json:"timeout"`
	} `json:"http"`
	Handlers struct {
		DefaultTimeout string `json:"default_timeout"`
		CommandTimeout string `json:"command_timeout"`
		QueryTimeout   string `json:"query_timeout"`
	} `json:"handlers"`
	MetadataKeys     []string `json:"metadata_keys"`
	RateLimitEnabled *bool    `json:"rate_limit_enabled"`
}

type dataFile struct {
	Postgres struct {
		DSN                       string `json:"dsn"`
		MaxOpenConns              int    `json:"max_open_conns"`
		MinOpenConns              int    `json:"min_open_conns"`
		MaxConnLifetime           string `json:"max_conn_lifetime"`
		MaxConnIdleTime           string `json:"max_conn_idle_time"`
		HealthCheckPeriod         string `json:"health_check_period"`
		Schema                    string `json:"schema"`
		PreparedStatementsEnabled bool   `json:"prepared_statements_enabled"`
		PoolMetricsEnabled        bool   `json:"pool_metrics_enabled"`
		Transaction               struct {
			DefaultIsolation string `json:"default_isolation"`
			DefaultTimeout   string `json:"default_timeout"`
			LockTimeout      string `json:"lock_timeout"`
			MaxRetries       int    `json:"max_retries"`
			MetricsEnabled   bool   `json:"metrics_enabled"`
		} `json:"transaction"`
	} `json:"postgres"`
}

type observabilityFile struct {
	GlobalAttributes map[string]string `json:"global_attributes"`
	Tracing          struct {
		Enabled            bool              `json:"enabled"`
		Exporter           string            `json:"exporter"`
		Endpoint           string            `json:"endpoint"`
		Headers            map[string]string `json:"headers"`
		Insecure           bool              `json:"insecure"`
		SamplingRatio      float64           `json:"sampling_ratio"`
		BatchTimeout       string            `json:"batch_timeout"`
		ExportTimeout      string            `json:"export_timeout"`
		MaxQueueSize       int               `json:"max_queue_size"`
		MaxExportBatchSize int               `json:"max_export_batch_size"`
		Required           bool              `json:"required"`
		Attributes         map[string]string `json:"attributes"`
	} `json:"tracing"`
	Metrics struct {
		Enabled             bool              `json:"enabled"`
		Exporter            string            `json:"exporter"`
		Endpoint            string            `json:"endpoint"`
		Headers             map[string]string `json:"headers"`
		Insecure            bool              `json:"insecure"`
		Interval            string            `json:"interval"`
		DisableRuntimeStats bool              `json:"disable_runtime_stats"`
		Required            bool              `json:"required"`
		ResourceAttributes  map[string]string `json:"resource_attributes"`
		HTTPEnabled         bool              `json:"http_enabled"`
	} `json:"metrics"`
}

type messagingFile struct {
	Schema   string     `json:"schema"`
	RoomFeed pubsubFile `json:"room_feed"`
	Outbox   outboxFile `json:"outbox"`
}

type outboxFile struct {
	BatchSize      int    `json:"batch_size"`
	TickInterval   string `json:"tick_interval"`
	InitialBackoff string `json:"initial_backoff"`
	MaxBackoff     string `json:"max_backoff"`
	MaxAttempts    int    `json:"max_attempts"`
	PublishTimeout string `json:"publish_timeout"`
	Workers        int    `json:"workers"`
	LockTTL        string `json:"lock_ttl"`
	LoggingEnabled *bool  `json:"logging_enabled"`
	MetricsEnabled *bool  `json:"metrics_enabled"`
}

type pubsubFile struct {
	ProjectID           string `json:"project_id"`
	TopicID             string `json:"topic_id"`
	SubscriptionID      string `json:"subscription_id"`
	OrderingKeyEnabled  bool   `json:"ordering_key_enabled"`
	LoggingEnabled      bool   `json:"logging_enabled"`
	MetricsEnabled      bool   `json:"metrics_enabled"`
	EmulatorEndpoint    string `json:"emulator_endpoint"`
	PublishTimeout      string `json:"publish_timeout"`
	ExactlyOnceDelivery bool   `json:"exactly_once_delivery"`
	Receive             struct {
		NumGoroutines          int    `json:"num_goroutines"`
		MaxOutstandingMessages int    `json:"max_outstanding_messages"`
		MaxOutstandingBytes    int    `json:"max_outstanding_bytes"`
		MaxExtension           string `json:"max_extension"`
		MaxExtensionPeriod     string `json:"max_extension_period"`
	} `json:"receive"`
}

type sessionFile struct {
	IdleTTL         string `json:"idle_ttl"`
	CleanupInterval string `json:"cleanup_interval"`
	StreamWindow    int    `json:"stream_window"`
}

// durations 收集时长解析错误，便于一次性报告全部无效字段。
type durations struct {
	errs []error
}

func (d *durations) parse(field, raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		d.errs = append(d.errs, fmt.Errorf("%s: %w", field, err))
		return 0
	}
	if v < 0 {
		d.errs = append(d.errs, fmt.Errorf("%s: must be non-negative", field))
		return 0
	}
	return v
}

func fromFile(b *bootstrapFile) (RuntimeConfig, error) {
	if b == nil {
		return RuntimeConfig{}, nil
	}
	var d durations
	rc := RuntimeConfig{
		Server:        serverFromFile(b.Server, &d),
		Database:      databaseFromFile(b.Data, &d),
		Observability: observabilityFromFile(b.Observability, &d),
		Messaging: MessagingConfig{
			Schema:   strings.TrimSpace(b.Messaging.Schema),
			RoomFeed: pubsubFromFile(b.Messaging.RoomFeed, "messaging.room_feed", &d),
			Outbox:   outboxFromFile(b.Messaging.Outbox, &d),
		},
		Session: SessionConfig{
			IdleTTL:         d.parse("session.idle_ttl", b.Session.IdleTTL),
			CleanupInterval: d.parse("session.cleanup_interval", b.Session.CleanupInterval),
			StreamWindow:    b.Session.StreamWindow,
		},
	}
	if err := errors.Join(d.errs...); err != nil {
		return RuntimeConfig{}, err
	}
	return rc, nil
}

func serverFromFile(s serverFile, d *durations) ServerConfig {
	server := ServerConfig{
		Network:          s.HTTP.Network,
		Address:          s.HTTP.Addr,
		Timeout:          d.parse("server.http.timeout", s.HTTP.Timeout),
		MetadataKeys:     append([]string(nil), s.MetadataKeys...),
		RateLimitEnabled: true,
	}
	if s.RateLimitEnabled != nil {
		server.RateLimitEnabled = *s.RateLimitEnabled
	}

	handlers := HandlerTimeoutConfig{
		Default: defaultHandlerTimeout,
		Command: defaultHandlerTimeout,
		Query:   defaultQueryTimeout,
	}
	if v := d.parse("server.handlers.default_timeout", s.Handlers.DefaultTimeout); v > 0 {
		handlers.Default = v
	}
	if v := d.parse("server.handlers.command_timeout", s.Handlers.CommandTimeout); v > 0 {
		handlers.Command = v
	} else {
		handlers.Command = handlers.Default
	}
	if v := d.parse("server.handlers.query_timeout", s.Handlers.QueryTimeout); v > 0 {
		handlers.Query = v
	} else {
		handlers.Query = firstNonZero(handlers.Query, handlers.Default)
	}
	server.Handlers = handlers
	return server
}

func databaseFromFile(data dataFile, d *durations) DatabaseConfig {
	pg := data.Postgres
	return DatabaseConfig{
		DSN:               strings.TrimSpace(pg.DSN),
		MaxOpenConns:      pg.MaxOpenConns,
		MinOpenConns:      pg.MinOpenConns,
		MaxConnLifetime:   d.parse("data.postgres.max_conn_lifetime", pg.MaxConnLifetime),
		MaxConnIdleTime:   d.parse("data.postgres.max_conn_idle_time", pg.MaxConnIdleTime),
		HealthCheckPeriod: d.parse("data.postgres.health_check_period", pg.HealthCheckPeriod),
		Schema:            pg.Schema,
		PreparedStmts:     pg.PreparedStatementsEnabled,
		PoolMetrics:       pg.PoolMetricsEnabled,
		Transaction: TransactionConfig{
			DefaultIsolation: pg.Transaction.DefaultIsolation,
			DefaultTimeout:   d.parse("data.postgres.transaction.default_timeout", pg.Transaction.DefaultTimeout),
			LockTimeout:      d.parse("data.postgres.transaction.lock_timeout", pg.Transaction.LockTimeout),
			MaxRetries:       pg.Transaction.MaxRetries,
			MetricsEnabled:   pg.Transaction.MetricsEnabled,
		},
	}
}

func observabilityFromFile(obs observabilityFile, d *durations) ObservabilityConfig {
	t := obs.Tracing
	m := obs.Metrics
	return ObservabilityConfig{
		GlobalAttributes: mapCopy(obs.GlobalAttributes),
		Tracing: TracingConfig{
			Enabled:            t.Enabled,
			Exporter:           t.Exporter,
			Endpoint:           t.Endpoint,
			Headers:            mapCopy(t.Headers),
			Insecure:           t.Insecure,
			SamplingRatio:      t.SamplingRatio,
			BatchTimeout:       d.parse("observability.tracing.batch_timeout", t.BatchTimeout),
			ExportTimeout:      d.parse("observability.tracing.export_timeout", t.ExportTimeout),
			MaxQueueSize:       t.MaxQueueSize,
			MaxExportBatchSize: t.MaxExportBatchSize,
			Required:           t.Required,
			Attributes:         mapCopy(t.Attributes),
		},
		Metrics: MetricsConfig{
			Enabled:             m.Enabled,
			Exporter:            m.Exporter,
			Endpoint:            m.Endpoint,
			Headers:             mapCopy(m.Headers),
			Insecure:            m.Insecure,
			Interval:            d.parse("observability.metrics.interval", m.Interval),
			DisableRuntimeStats: m.DisableRuntimeStats,
			Required:            m.Required,
			ResourceAttributes:  mapCopy(m.ResourceAttributes),
			HTTPEnabled:         m.HTTPEnabled,
		},
	}
}

func pubsubFromFile(pb pubsubFile, prefix string, d *durations) PubSubConfig {
	return PubSubConfig{
		ProjectID:           strings.TrimSpace(pb.ProjectID),
		TopicID:             strings.TrimSpace(pb.TopicID),
		SubscriptionID:      strings.TrimSpace(pb.SubscriptionID),
		OrderingKeyEnabled:  pb.OrderingKeyEnabled,
		LoggingEnabled:      pb.LoggingEnabled,
		MetricsEnabled:      pb.MetricsEnabled,
		EmulatorEndpoint:    pb.EmulatorEndpoint,
		PublishTimeout:      d.parse(prefix+".publish_timeout", pb.PublishTimeout),
		ExactlyOnceDelivery: pb.ExactlyOnceDelivery,
		Receive: PubSubReceiveConfig{
			NumGoroutines:          pb.Receive.NumGoroutines,
			MaxOutstandingMessages: pb.Receive.MaxOutstandingMessages,
			MaxOutstandingBytes:    pb.Receive.MaxOutstandingBytes,
			MaxExtension:           d.parse(prefix+".receive.max_extension", pb.Receive.MaxExtension),
			MaxExtensionPeriod:     d.parse(prefix+".receive.max_extension_period", pb.Receive.MaxExtensionPeriod),
		},
	}
}

func outboxFromFile(ob outboxFile, d *durations) OutboxPublisherConfig {
	return OutboxPublisherConfig{
		BatchSize:      ob.BatchSize,
		TickInterval:   d.parse("messaging.outbox.tick_interval", ob.TickInterval),
		InitialBackoff: d.parse("messaging.outbox.initial_backoff", ob.InitialBackoff),
		MaxBackoff:     d.parse("messaging.outbox.max_backoff", ob.MaxBackoff),
		MaxAttempts:    ob.MaxAttempts,
		PublishTimeout: d.parse("messaging.outbox.publish_timeout", ob.PublishTimeout),
		Workers:        ob.Workers,
		LockTTL:        d.parse("messaging.outbox.lock_ttl", ob.LockTTL),
		LoggingEnabled: ob.LoggingEnabled,
		MetricsEnabled: ob.MetricsEnabled,
	}
}

func mapCopy(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func firstNonZero(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func fillDefaults(cfg *RuntimeConfig) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = defaultHTTPAddress
	}
	if len(cfg.Server.MetadataKeys) == 0 {
		cfg.Server.MetadataKeys = []string{defaultUserInfoHeader, defaultMetadataPrefix, defaultIdempotencyKey}
	}
	if cfg.Database.Schema == "" {
		cfg.Database.Schema = defaultSchema
	}
	if cfg.Session.IdleTTL == 0 {
		cfg.Session.IdleTTL = defaultSessionIdleTTL
	}
	if cfg.Session.CleanupInterval == 0 {
		cfg.Session.CleanupInterval = defaultSessionCleanup
	}
	if cfg.Session.StreamWindow == 0 {
		cfg.Session.StreamWindow = defaultStreamWindow
	}
	if cfg.Messaging.Schema == "" {
		cfg.Messaging.Schema = cfg.Database.Schema
	}
	if cfg.Messaging.RoomFeed.ProjectID != "" && cfg.Messaging.RoomFeed.PublishTimeout == 0 {
		cfg.Messaging.RoomFeed.PublishTimeout = defaultPublishDeadline
	}
}

// validate 检查归一化后的配置是否可用于启动。
func validate(cfg RuntimeConfig) error {
	var errs []error
	if cfg.Database.DSN == "" {
		errs = append(errs, errors.New("data.postgres.dsn: required"))
	}
	if cfg.Database.MaxOpenConns < 0 || cfg.Database.MinOpenConns < 0 {
		errs = append(errs, errors.New("data.postgres: connection counts must be non-negative"))
	}
	if cfg.Database.MaxOpenConns > 0 && cfg.Database.MinOpenConns > cfg.Database.MaxOpenConns {
		errs = append(errs, errors.New("data.postgres.min_open_conns: exceeds max_open_conns"))
	}
	if cfg.Session.StreamWindow < 0 {
		errs = append(errs, errors.New("session.stream_window: must be non-negative"))
	}
	if rate := cfg.Observability.Tracing.SamplingRatio; rate < 0 || rate > 1 {
		errs = append(errs, errors.New("observability.tracing.sampling_ratio: must be within [0, 1]"))
	}
	if feed := cfg.Messaging.RoomFeed; feed.ProjectID != "" {
		if feed.TopicID == "" {
			errs = append(errs, errors.New("messaging.room_feed.topic_id: required when project_id is set"))
		}
		if feed.SubscriptionID == "" {
			errs = append(errs, errors.New("messaging.room_feed.subscription_id: required when project_id is set"))
		}
	}
	if ob := cfg.Messaging.Outbox; ob.BatchSize < 0 || ob.MaxAttempts < 0 || ob.Workers < 0 {
		errs = append(errs, errors.New("messaging.outbox: batch_size, max_attempts and workers must be non-negative"))
	}
	return errors.Join(errs...)
}
