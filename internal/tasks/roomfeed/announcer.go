package roomfeed

import (
	"context"

	"github.com/bionicotaku/anima-library/internal/models/po"
	"github.com/bionicotaku/anima-library/internal/services"

	"github.com/go-kratos/kratos/v2/log"
)

var (
	_ services.MessageFeed      = (*Hub)(nil)
	_ services.MessageAnnouncer = (*Announcer)(nil)
)

// Announcer 将已提交的消息投递给本实例的监听者。
// 跨实例分发由 Outbox 发布器完成，同一条消息可能经 Runner 再次到达本实例，由订阅方按 MessageID 去重。
type Announcer struct {
	hub *Hub
	log *log.Helper
}

// NewAnnouncer 构造 Announcer。
func NewAnnouncer(hub *Hub, logger log.Logger) *Announcer {
	return &Announcer{
		hub: hub,
		log: log.NewHelper(logger),
	}
}

// Announce 在本实例内广播一条已持久化的消息。
func (a *Announcer) Announce(ctx context.Context, msg po.RoomMessage) error {
	if a.hub == nil {
		return nil
	}
	delivered := a.hub.Dispatch(msg)
	a.log.WithContext(ctx).Debugf("room message announced: room=%s message=%s listeners=%d", msg.RoomID, msg.MessageID, delivered)
	return nil
}
