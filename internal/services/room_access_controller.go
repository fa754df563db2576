package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bionicotaku/anima-library/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// RoomAccessParams 汇总 RoomAccessController 的依赖。
type RoomAccessParams struct {
	RoomID      uuid.UUID
	UserID      string
	Clock       AiringClock
	Attestation AttestationService
	Stream      MessageStream
	OnMessages  func([]po.RoomMessage)
	Logger      log.Logger
}

// RoomAccessController 维护单个 (房间, 用户) 的闸门状态。
//
// 状态只会沿 LOCKED → FOG → UNLOCKED 推进，UNLOCKED 之后不再回退；
// 只有在 UNLOCKED 时才会订阅消息流。Close 之后不再建立新订阅。
type RoomAccessController struct {
	roomID      uuid.UUID
	userID      string
	clock       AiringClock
	attestation AttestationService
	stream      MessageStream
	onMessages  func([]po.RoomMessage)
	log         *log.Helper
	metrics     *libraryMetrics

	mu          sync.Mutex
	state       po.GateState
	subscribed  bool
	subscribing bool
	closed      bool
}

// NewRoomAccessController 构造处于 LOCKED 的控制器，需调用 Load 计算实际状态。
func NewRoomAccessController(params RoomAccessParams) *RoomAccessController {
	onMessages := params.OnMessages
	if onMessages == nil {
		onMessages = func([]po.RoomMessage) {}
	}
	return &RoomAccessController{
		roomID:      params.RoomID,
		userID:      params.UserID,
		clock:       params.Clock,
		attestation: params.Attestation,
		stream:      params.Stream,
		onMessages:  onMessages,
		log:         log.NewHelper(params.Logger),
		metrics:     newLibraryMetrics(),
		state:       po.GateLocked,
	}
}

// RoomID 返回房间 ID。
func (c *RoomAccessController) RoomID() uuid.UUID {
	return c.roomID
}

// State 返回当前闸门状态。
func (c *RoomAccessController) State() po.GateState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribed 表示消息流是否已建立。
func (c *RoomAccessController) Subscribed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subscribed
}

// Closed 表示控制器是否已被关闭。
func (c *RoomAccessController) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Load 根据播出时间与验证记录计算闸门状态。出错时保持原状态。
func (c *RoomAccessController) Load(ctx context.Context) (po.GateState, error) {
	if c.Closed() {
		return c.State(), ErrRoomNotOpen
	}
	if c.State() == po.GateUnlocked {
		return po.GateUnlocked, c.ensureSubscribed(ctx)
	}

	aired, err := c.clock.IsAired(ctx, c.roomID)
	if err != nil {
		c.log.WithContext(ctx).Errorf("check airing failed: room=%s user=%s err=%v", c.roomID, c.userID, err)
		return c.State(), fmt.Errorf("load room gate: %w", err)
	}
	if !aired {
		return c.advance(ctx, po.GateLocked), nil
	}

	has, err := c.attestation.HasAccess(ctx, c.roomID, c.userID)
	if err != nil {
		c.log.WithContext(ctx).Errorf("check room access failed: room=%s user=%s err=%v", c.roomID, c.userID, err)
		return c.State(), fmt.Errorf("load room gate: %w", err)
	}
	if !has {
		return c.advance(ctx, po.GateFog), nil
	}
	return c.unlock(ctx)
}

// Verify 提交“已看过”确认。LOCKED 时会先复查播出时间，失败时闸门保持不变。
func (c *RoomAccessController) Verify(ctx context.Context) (po.GateState, error) {
	if c.Closed() {
		return c.State(), ErrRoomNotOpen
	}
	switch c.State() {
	case po.GateUnlocked:
		return po.GateUnlocked, nil
	case po.GateLocked:
		aired, err := c.clock.IsAired(ctx, c.roomID)
		if err != nil {
			return po.GateLocked, fmt.Errorf("verify room: %w", err)
		}
		if !aired {
			return po.GateLocked, ErrRoomNotAired
		}
		c.advance(ctx, po.GateFog)
	}

	if err := c.attestation.Verify(ctx, c.roomID, c.userID); err != nil {
		c.log.WithContext(ctx).Warnf("verify room failed: room=%s user=%s err=%v", c.roomID, c.userID, err)
		return c.State(), fmt.Errorf("verify room: %w", err)
	}
	return c.unlock(ctx)
}

// Close 释放消息流订阅并拒绝后续订阅，可重复调用；闸门状态不变。
// 正在进行的订阅由 ensureSubscribed 在返回后自行撤销。
func (c *RoomAccessController) Close() {
	c.mu.Lock()
	c.closed = true
	subscribed := c.subscribed
	c.subscribed = false
	c.mu.Unlock()
	if subscribed {
		c.stream.Unsubscribe()
	}
}

func (c *RoomAccessController) unlock(ctx context.Context) (po.GateState, error) {
	c.advance(ctx, po.GateUnlocked)
	if err := c.ensureSubscribed(ctx); err != nil {
		return po.GateUnlocked, err
	}
	return po.GateUnlocked, nil
}

// advance 写入新状态；UNLOCKED 不会被覆盖。
func (c *RoomAccessController) advance(ctx context.Context, next po.GateState) po.GateState {
	c.mu.Lock()
	prev := c.state
	if prev != po.GateUnlocked {
		c.state = next
	}
	current := c.state
	c.mu.Unlock()

	if prev != current {
		c.log.WithContext(ctx).Debugf("room gate changed: room=%s user=%s from=%s to=%s", c.roomID, c.userID, prev, current)
		c.metrics.recordGate(ctx, string(prev), string(current))
	}
	return current
}

func (c *RoomAccessController) ensureSubscribed(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrRoomNotOpen
	}
	if c.subscribed || c.subscribing || c.state != po.GateUnlocked {
		c.mu.Unlock()
		return nil
	}
	c.subscribing = true
	c.mu.Unlock()

	err := c.stream.Subscribe(ctx, c.roomID, c.onMessages)
	ok := err == nil || errors.Is(err, ErrAlreadySubscribed)

	c.mu.Lock()
	c.subscribing = false
	closed := c.closed
	if ok && !closed {
		c.subscribed = true
	}
	c.mu.Unlock()

	switch {
	case ok && closed:
		// Close 在订阅途中发生，撤销刚建立的订阅。
		c.stream.Unsubscribe()
		c.log.WithContext(ctx).Debugf("room closed during subscribe: room=%s user=%s", c.roomID, c.userID)
		return ErrRoomNotOpen
	case ok:
		return nil
	}
	c.log.WithContext(ctx).Errorf("subscribe room stream failed: room=%s user=%s err=%v", c.roomID, c.userID, err)
	return fmt.Errorf("subscribe room: %w", err)
}
