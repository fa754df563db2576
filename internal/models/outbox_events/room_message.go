// Package outboxevents 定义房间消息领域事件的载荷与 Pub/Sub/Outbox 附加属性。
// 写入端（Outbox）与消费端（roomfeed Runner）共用同一份 JSON 协议。
package outboxevents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/anima-library/internal/models/po"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const (
	// SchemaVersionV1 描述事件载荷的当前 schema 版本。
	SchemaVersionV1 = "v1"
	// EventTypeRoomMessagePosted 是新消息事件的类型。
	EventTypeRoomMessagePosted = "library.room.message_posted"
	// AggregateTypeEpisodeRoom 标识房间聚合类型。
	AggregateTypeEpisodeRoom = "episode_room"
)

var (
	// ErrUnsupportedEvent 表示未识别的事件类型。
	ErrUnsupportedEvent = errors.New("outboxevents: unsupported event")
	// ErrInvalidPayload 表示事件载荷缺少必填字段或字段非法。
	ErrInvalidPayload = errors.New("outboxevents: invalid payload")
)

// RoomMessagePosted 是房间新消息事件的 JSON 载荷。
type RoomMessagePosted struct {
	EventName string    `json:"event_name"`
	MessageID string    `json:"message_id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Version   string    `json:"version"`
}

// NewRoomMessagePosted 将已持久化的消息转换为事件载荷。
func NewRoomMessagePosted(msg po.RoomMessage) RoomMessagePosted {
	return RoomMessagePosted{
		EventName: EventTypeRoomMessagePosted,
		MessageID: msg.MessageID.String(),
		RoomID:    msg.RoomID.String(),
		UserID:    msg.UserID,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt.UTC(),
		Version:   SchemaVersionV1,
	}
}

// Message 校验事件并还原为 RoomMessage。
// created_at 决定消息在流中的位置，缺失时视为非法载荷，不以接收时间代替。
func (e *RoomMessagePosted) Message() (po.RoomMessage, error) {
	if e.EventName != EventTypeRoomMessagePosted {
		return po.RoomMessage{}, fmt.Errorf("%w: event_name=%q", ErrUnsupportedEvent, e.EventName)
	}
	messageID, err := uuid.Parse(e.MessageID)
	if err != nil {
		return po.RoomMessage{}, fmt.Errorf("%w: parse message_id: %v", ErrInvalidPayload, err)
	}
	roomID, err := uuid.Parse(e.RoomID)
	if err != nil {
		return po.RoomMessage{}, fmt.Errorf("%w: parse room_id: %v", ErrInvalidPayload, err)
	}
	if e.UserID == "" {
		return po.RoomMessage{}, fmt.Errorf("%w: user_id missing", ErrInvalidPayload)
	}
	if e.Body == "" {
		return po.RoomMessage{}, fmt.Errorf("%w: body missing", ErrInvalidPayload)
	}
	if e.CreatedAt.IsZero() {
		return po.RoomMessage{}, fmt.Errorf("%w: created_at missing", ErrInvalidPayload)
	}
	return po.RoomMessage{
		MessageID: messageID,
		RoomID:    roomID,
		UserID:    e.UserID,
		Body:      e.Body,
		CreatedAt: e.CreatedAt.UTC(),
	}, nil
}

// BuildAttributes 构造房间消息的 Pub/Sub attributes，同时作为 Outbox headers 落库。
func BuildAttributes(msg po.RoomMessage, traceID string) map[string]string {
	attrs := map[string]string{
		"event_id":       msg.MessageID.String(),
		"event_type":     EventTypeRoomMessagePosted,
		"aggregate_id":   msg.RoomID.String(),
		"aggregate_type": AggregateTypeEpisodeRoom,
		"occurred_at":    msg.CreatedAt.UTC().Format(time.RFC3339Nano),
		"schema_version": SchemaVersionV1,
	}
	if traceID != "" {
		attrs["trace_id"] = traceID
	}
	return attrs
}

// TraceIDFromContext 提取 OTel Trace ID，若不存在返回空字符串。
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() || !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}
