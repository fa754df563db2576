// Package roomfeed 负责剧集房间消息的实时分发：Pub/Sub 消费、进程内扇出与消息广播。
package roomfeed

import (
	"encoding/json"
	"fmt"
	"strings"

	outboxevents "github.com/bionicotaku/anima-library/internal/models/outbox_events"
	"github.com/bionicotaku/anima-library/internal/models/po"
)

const (
	// EventVersion 表示房间消息事件协议的版本常量。
	EventVersion = outboxevents.SchemaVersionV1
	// EventNamePosted 是新消息事件的名称。
	EventNamePosted = outboxevents.EventTypeRoomMessagePosted
)

// Event 描述一条房间消息事件，与 Outbox 落库的载荷相同。
type Event = outboxevents.RoomMessagePosted

// EventFromMessage 将已持久化的消息转换为事件。
func EventFromMessage(msg po.RoomMessage) Event {
	return outboxevents.NewRoomMessagePosted(msg)
}

type eventDecoder struct{}

func newEventDecoder() *eventDecoder {
	return &eventDecoder{}
}

// Decode 将 JSON 载荷解码为 Event 并补足 event_name 与 version 的缺省值。
func (d *eventDecoder) Decode(data []byte) (*Event, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("roomfeed: empty payload")
	}
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("roomfeed: decode payload: %w", err)
	}
	d.normalize(&evt)
	return &evt, nil
}

func (d *eventDecoder) normalize(evt *Event) {
	evt.EventName = strings.TrimSpace(evt.EventName)
	evt.MessageID = strings.TrimSpace(evt.MessageID)
	evt.RoomID = strings.TrimSpace(evt.RoomID)
	evt.UserID = strings.TrimSpace(evt.UserID)
	evt.Body = strings.TrimSpace(evt.Body)

	if evt.EventName == "" {
		evt.EventName = EventNamePosted
	}
	if !evt.CreatedAt.IsZero() {
		evt.CreatedAt = evt.CreatedAt.UTC()
	}
	if strings.TrimSpace(evt.Version) == "" {
		evt.Version = EventVersion
	}
}
