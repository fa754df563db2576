package roomfeed

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "anima-library.roomfeed"

// Runner 消费房间消息事件并分发给本实例的 Hub。
type Runner struct {
	subscriber gcpubsub.Subscriber
	hub        *Hub
	decoder    *eventDecoder
	log        *log.Helper
	metrics    *metrics
	tracer     trace.Tracer
	clock      func() time.Time
}

// RunnerParams 注入 Runner 所需依赖。
type RunnerParams struct {
	Subscriber gcpubsub.Subscriber
	Hub        *Hub
	Logger     log.Logger
}

// NewRunner 构造 Runner。
func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Subscriber == nil {
		return nil, fmt.Errorf("roomfeed: subscriber is required")
	}
	if params.Hub == nil {
		return nil, fmt.Errorf("roomfeed: hub is required")
	}
	return &Runner{
		subscriber: params.Subscriber,
		hub:        params.Hub,
		decoder:    newEventDecoder(),
		log:        log.NewHelper(params.Logger),
		metrics:    newMetrics(),
		tracer:     otel.Tracer(tracerName),
		clock:      time.Now,
	}, nil
}

// Run 启动消费循环，直到 ctx 取消。
func (r *Runner) Run(ctx context.Context) error {
	if r == nil {
		return nil
	}
	return r.subscriber.Receive(ctx, r.handle)
}

// handle 处理单条消息。无法解析的事件记为失败后直接确认，不做重投。
func (r *Runner) handle(ctx context.Context, msg *gcpubsub.Message) error {
	ctx, span := r.tracer.Start(ctx, "roomfeed.apply", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	evt, err := r.decoder.Decode(msg.Data)
	if err != nil {
		r.reject(ctx, span, msg, "decode", err)
		return nil
	}
	message, err := evt.Message()
	if err != nil {
		r.reject(ctx, span, msg, "invalid", err)
		return nil
	}

	delivered := r.hub.Dispatch(message)
	span.SetAttributes(
		attribute.String("room.id", message.RoomID.String()),
		attribute.String("message.id", message.MessageID.String()),
		attribute.Int("room.listeners", delivered),
	)
	r.metrics.recordSuccess(ctx, message.CreatedAt, r.clock())
	return nil
}

func (r *Runner) reject(ctx context.Context, span trace.Span, msg *gcpubsub.Message, reason string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	r.metrics.recordFailure(ctx, reason)
	r.log.WithContext(ctx).Warnw("msg", "roomfeed: drop event", "reason", reason, "pubsub_id", msg.ID, "error", err)
}
