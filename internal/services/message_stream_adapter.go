package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bionicotaku/anima-library/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

const defaultStreamWindow = 200

// StreamOption 定制 MessageStreamAdapter。
type StreamOption func(*MessageStreamAdapter)

// WithWindow 设置快照保留的最近消息条数。
func WithWindow(size int) StreamOption {
	return func(a *MessageStreamAdapter) {
		if size > 0 {
			a.window = size
		}
	}
}

// MessageStreamAdapter 将历史消息与实时推送合并为按 (CreatedAt, MessageID) 排序的快照。
//
// 每次变化都会向回调交付完整快照；回调在内部锁内串行执行，不得回调本对象。
// Unsubscribe 返回后不会再有回调。
type MessageStreamAdapter struct {
	feed    MessageFeed
	history MessageHistory
	log     *log.Helper
	window  int

	mu         sync.Mutex
	active     bool
	generation uint64
	roomID     uuid.UUID
	cancel     func()
	onMessages func([]po.RoomMessage)
	ordered    []po.RoomMessage
	seen       map[uuid.UUID]struct{}
}

// NewMessageStreamAdapter 构造 MessageStreamAdapter。
func NewMessageStreamAdapter(feed MessageFeed, history MessageHistory, logger log.Logger, opts ...StreamOption) *MessageStreamAdapter {
	a := &MessageStreamAdapter{
		feed:    feed,
		history: history,
		log:     log.NewHelper(logger),
		window:  defaultStreamWindow,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Subscribe 先注册实时监听再加载历史，合并去重后交付首个快照。
func (a *MessageStreamAdapter) Subscribe(ctx context.Context, roomID uuid.UUID, onMessages func([]po.RoomMessage)) error {
	if onMessages == nil {
		return fmt.Errorf("%w: onMessages callback required", ErrInvalidArgument)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active {
		return ErrAlreadySubscribed
	}

	a.generation++
	generation := a.generation
	a.roomID = roomID
	a.ordered = nil
	a.seen = map[uuid.UUID]struct{}{}

	cancel := a.feed.Subscribe(roomID, func(msg po.RoomMessage) {
		a.receive(generation, msg)
	})

	history, err := a.history.ListRecent(ctx, nil, roomID, a.window)
	if err != nil {
		cancel()
		a.log.WithContext(ctx).Errorf("load room history failed: room=%s err=%v", roomID, err)
		return fmt.Errorf("subscribe room stream: %w", err)
	}

	a.active = true
	a.cancel = cancel
	a.onMessages = onMessages
	for _, msg := range history {
		if msg != nil {
			a.mergeLocked(*msg)
		}
	}
	a.deliverLocked()
	return nil
}

// Unsubscribe 释放实时监听，可重复调用。
func (a *MessageStreamAdapter) Unsubscribe() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.active {
		return
	}
	a.active = false
	a.generation++
	if a.cancel != nil {
		a.cancel()
	}
	a.cancel = nil
	a.onMessages = nil
	a.ordered = nil
	a.seen = nil
}

// Active 表示当前是否处于订阅状态。
func (a *MessageStreamAdapter) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

func (a *MessageStreamAdapter) receive(generation uint64, msg po.RoomMessage) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.active || a.generation != generation || msg.RoomID != a.roomID {
		return
	}
	if a.mergeLocked(msg) {
		a.deliverLocked()
	}
}

// mergeLocked 按序插入新消息并裁剪到窗口大小，返回快照是否变化。
func (a *MessageStreamAdapter) mergeLocked(msg po.RoomMessage) bool {
	if _, ok := a.seen[msg.MessageID]; ok {
		return false
	}
	pos := sort.Search(len(a.ordered), func(i int) bool {
		return msg.Less(a.ordered[i])
	})
	if len(a.ordered) >= a.window && pos == 0 {
		return false
	}
	a.ordered = append(a.ordered, po.RoomMessage{})
	copy(a.ordered[pos+1:], a.ordered[pos:])
	a.ordered[pos] = msg
	a.seen[msg.MessageID] = struct{}{}

	for len(a.ordered) > a.window {
		delete(a.seen, a.ordered[0].MessageID)
		a.ordered = a.ordered[1:]
	}
	return true
}

func (a *MessageStreamAdapter) deliverLocked() {
	if a.onMessages == nil {
		return
	}
	snapshot := make([]po.RoomMessage, len(a.ordered))
	copy(snapshot, a.ordered)
	a.onMessages(snapshot)
}
