package roomfeed

import (
	"sync"

	"github.com/bionicotaku/anima-library/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// Hub 按房间维护本实例内的消息监听者。
//
// 监听回调在锁外执行，回调内可以安全地注册或注销监听。
type Hub struct {
	log *log.Helper

	mu        sync.RWMutex
	nextID    uint64
	listeners map[uuid.UUID]map[uint64]func(po.RoomMessage)
}

// NewHub 构造 Hub。
func NewHub(logger log.Logger) *Hub {
	return &Hub{
		log:       log.NewHelper(logger),
		listeners: map[uuid.UUID]map[uint64]func(po.RoomMessage){},
	}
}

// Subscribe 注册房间监听，返回的 cancel 可重复调用。
func (h *Hub) Subscribe(roomID uuid.UUID, listener func(po.RoomMessage)) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	room, ok := h.listeners[roomID]
	if !ok {
		room = map[uint64]func(po.RoomMessage){}
		h.listeners[roomID] = room
	}
	room[id] = listener
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if room, ok := h.listeners[roomID]; ok {
				delete(room, id)
				if len(room) == 0 {
					delete(h.listeners, roomID)
				}
			}
		})
	}
}

// Dispatch 将消息投递给房间内全部监听者，返回投递数量。
func (h *Hub) Dispatch(msg po.RoomMessage) int {
	h.mu.RLock()
	room := h.listeners[msg.RoomID]
	targets := make([]func(po.RoomMessage), 0, len(room))
	for _, listener := range room {
		targets = append(targets, listener)
	}
	h.mu.RUnlock()

	for _, listener := range targets {
		listener(msg)
	}
	if len(targets) > 0 {
		h.log.Debugf("room message dispatched: room=%s message=%s listeners=%d", msg.RoomID, msg.MessageID, len(targets))
	}
	return len(targets)
}

// Listeners 返回房间当前的监听者数量。
func (h *Hub) Listeners(roomID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners[roomID])
}
