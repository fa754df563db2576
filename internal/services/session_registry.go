package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bionicotaku/anima-library/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	defaultSessionIdleTTL         = 30 * time.Minute
	defaultSessionCleanupInterval = time.Minute
)

// SessionConfig 控制会话的空闲过期与消息窗口。
type SessionConfig struct {
	IdleTTL         time.Duration
	CleanupInterval time.Duration
	StreamWindow    int
}

// SessionRegistry 为每个用户维护一个会话；空闲超时或登出时关闭会话。
type SessionRegistry struct {
	directory   DirectoryService
	eligibility PostEligibilityChecker
	clock       AiringClock
	attestation AttestationService
	rooms       *EpisodeRoomService
	messages    *RoomMessageService
	feed        MessageFeed
	history     MessageHistory
	logger      log.Logger
	log         *log.Helper
	cfg         SessionConfig

	mu       sync.Mutex
	sessions *cache.Cache
}

// NewSessionRegistry 构造 SessionRegistry。
func NewSessionRegistry(
	cfg SessionConfig,
	directory DirectoryService,
	eligibility PostEligibilityChecker,
	clock AiringClock,
	attestation AttestationService,
	rooms *EpisodeRoomService,
	messages *RoomMessageService,
	feed MessageFeed,
	history MessageHistory,
	logger log.Logger,
) *SessionRegistry {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultSessionIdleTTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultSessionCleanupInterval
	}
	r := &SessionRegistry{
		directory:   directory,
		eligibility: eligibility,
		clock:       clock,
		attestation: attestation,
		rooms:       rooms,
		messages:    messages,
		feed:        feed,
		history:     history,
		logger:      logger,
		log:         log.NewHelper(logger),
		cfg:         cfg,
		sessions:    cache.New(cfg.IdleTTL, cfg.CleanupInterval),
	}
	r.sessions.OnEvicted(func(userID string, value interface{}) {
		if sess, ok := value.(*Session); ok {
			sess.Close()
			r.log.Debugf("session closed: user=%s", userID)
		}
	})
	return r
}

// Session 返回用户会话，不存在时创建；每次访问都会刷新空闲期限。
func (r *SessionRegistry) Session(userID string) (*Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id required", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if value, ok := r.sessions.Get(userID); ok {
		sess := value.(*Session)
		r.sessions.Set(userID, sess, cache.DefaultExpiration)
		return sess, nil
	}
	// 已过期但尚未被清理的旧会话需要先关闭。
	r.sessions.Delete(userID)

	sess := r.newSession(userID)
	r.sessions.Set(userID, sess, cache.DefaultExpiration)
	return sess, nil
}

// Logout 丢弃用户会话，返回会话是否存在。
func (r *SessionRegistry) Logout(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions.Get(userID)
	r.sessions.Delete(userID)
	return ok
}

// Len 返回未过期的会话数。
func (r *SessionRegistry) Len() int {
	return r.sessions.ItemCount()
}

// Close 关闭全部会话。
func (r *SessionRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID := range r.sessions.Items() {
		r.sessions.Delete(userID)
	}
	r.sessions.DeleteExpired()
}

func (r *SessionRegistry) newSession(userID string) *Session {
	return &Session{
		userID:   userID,
		registry: r,
		library:  NewLibraryCache(userID, r.directory, r.eligibility, r.logger),
		views:    map[uuid.UUID]*RoomView{},
		log:      log.NewHelper(r.logger),
	}
}

// Session 持有单个用户的片单缓存与已打开的房间。
type Session struct {
	userID   string
	registry *SessionRegistry
	library  *LibraryCache
	log      *log.Helper

	mu     sync.Mutex
	views  map[uuid.UUID]*RoomView
	closed bool
}

// UserID 返回会话用户。
func (s *Session) UserID() string {
	return s.userID
}

// Library 返回会话的片单缓存。
func (s *Session) Library() *LibraryCache {
	return s.library
}

// EnsureLoaded 在首次使用时载入片单。
func (s *Session) EnsureLoaded(ctx context.Context) error {
	if s.library.Loaded() {
		return nil
	}
	return s.library.FetchAll(ctx)
}

// EnterRoom 打开房间视图（已打开则复用）并计算闸门状态。
func (s *Session) EnterRoom(ctx context.Context, roomID uuid.UUID) (*RoomView, error) {
	view, err := s.view(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if _, err := view.controller.Load(ctx); err != nil {
		return view, err
	}
	return view, nil
}

// Room 返回已打开的房间视图。
func (s *Session) Room(roomID uuid.UUID) (*RoomView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	view, ok := s.views[roomID]
	if !ok {
		return nil, ErrRoomNotOpen
	}
	return view, nil
}

// VerifyRoom 在已打开的房间上提交“已看过”确认。
func (s *Session) VerifyRoom(ctx context.Context, roomID uuid.UUID) (*RoomView, error) {
	view, err := s.Room(roomID)
	if err != nil {
		return nil, err
	}
	if _, err := view.controller.Verify(ctx); err != nil {
		return view, err
	}
	return view, nil
}

// LeaveRoom 释放房间订阅并关闭视图。
func (s *Session) LeaveRoom(roomID uuid.UUID) error {
	s.mu.Lock()
	view, ok := s.views[roomID]
	delete(s.views, roomID)
	s.mu.Unlock()
	if !ok {
		return ErrRoomNotOpen
	}
	view.controller.Close()
	return nil
}

// Messages 返回房间最新的消息快照；仅在 UNLOCKED 时可读。
func (s *Session) Messages(roomID uuid.UUID) ([]po.RoomMessage, error) {
	view, err := s.Room(roomID)
	if err != nil {
		return nil, err
	}
	if err := gateError(view.State()); err != nil {
		return nil, err
	}
	return view.Snapshot(), nil
}

// PostMessage 在已解锁且具备发言资格的房间发布消息。
func (s *Session) PostMessage(ctx context.Context, roomID uuid.UUID, body string) (*po.RoomMessage, error) {
	view, err := s.Room(roomID)
	if err != nil {
		return nil, err
	}
	if err := gateError(view.State()); err != nil {
		return nil, err
	}
	allowed, err := s.library.CheckCanPost(ctx, view.room.TitleID)
	if err != nil {
		return nil, fmt.Errorf("check can post: %w", err)
	}
	if !allowed {
		return nil, ErrPostNotAllowed
	}
	return s.registry.messages.Post(ctx, roomID, s.userID, body)
}

// Close 释放全部房间订阅，可重复调用。
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	views := s.views
	s.views = map[uuid.UUID]*RoomView{}
	s.mu.Unlock()

	for _, view := range views {
		view.controller.Close()
	}
}

// Closed 表示会话是否已关闭。
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) view(ctx context.Context, roomID uuid.UUID) (*RoomView, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if view, ok := s.views[roomID]; ok {
		s.mu.Unlock()
		return view, nil
	}
	s.mu.Unlock()

	room, err := s.registry.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	r := s.registry
	view := &RoomView{room: *room}
	view.controller = NewRoomAccessController(RoomAccessParams{
		RoomID:      roomID,
		UserID:      s.userID,
		Clock:       r.clock,
		Attestation: r.attestation,
		Stream:      NewMessageStreamAdapter(r.feed, r.history, r.logger, WithWindow(r.cfg.StreamWindow)),
		OnMessages:  view.store,
		Logger:      r.logger,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	if existing, ok := s.views[roomID]; ok {
		return existing, nil
	}
	s.views[roomID] = view
	return view, nil
}

func gateError(state po.GateState) error {
	switch state {
	case po.GateUnlocked:
		return nil
	case po.GateFog:
		return ErrRoomFogged
	default:
		return ErrRoomNotAired
	}
}

// RoomView 是会话内打开的单个房间：闸门控制器与最新消息快照。
type RoomView struct {
	room       po.EpisodeRoom
	controller *RoomAccessController

	mu       sync.RWMutex
	snapshot []po.RoomMessage
}

// Room 返回房间信息。
func (v *RoomView) Room() po.EpisodeRoom {
	return v.room
}

// State 返回闸门状态。
func (v *RoomView) State() po.GateState {
	return v.controller.State()
}

// Subscribed 表示消息流是否已建立。
func (v *RoomView) Subscribed() bool {
	return v.controller.Subscribed()
}

// Snapshot 返回最近一次交付的消息快照副本。
func (v *RoomView) Snapshot() []po.RoomMessage {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]po.RoomMessage, len(v.snapshot))
	copy(out, v.snapshot)
	return out
}

func (v *RoomView) store(messages []po.RoomMessage) {
	v.mu.Lock()
	v.snapshot = messages
	v.mu.Unlock()
}
