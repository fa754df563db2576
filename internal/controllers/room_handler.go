package controllers

import (
	"context"
	"strings"

	"github.com/bionicotaku/anima-library/internal/controllers/dto"
	"github.com/bionicotaku/anima-library/internal/models/po"
	"github.com/bionicotaku/anima-library/internal/services"

	"github.com/google/uuid"
)

// RoomHandler 暴露剧集讨论房间的登记、闸门与消息接口。
type RoomHandler struct {
	*BaseHandler
	sessions *services.SessionRegistry
	rooms    *services.EpisodeRoomService
}

// NewRoomHandler 构造 RoomHandler。
func NewRoomHandler(sessions *services.SessionRegistry, rooms *services.EpisodeRoomService, base *BaseHandler) *RoomHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &RoomHandler{BaseHandler: base, sessions: sessions, rooms: rooms}
}

// RegisterRoom 登记作品某一集的讨论房间及播出时间。
func (h *RoomHandler) RegisterRoom(ctx context.Context, req *dto.RegisterRoomRequest) (*dto.RoomResponse, error) {
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = InjectHandlerMetadata(timeoutCtx, h.ExtractMetadata(ctx))

	room, err := h.rooms.Register(timeoutCtx, services.RegisterRoomInput{
		TitleID:       req.TitleID,
		EpisodeNumber: req.EpisodeNumber,
		AiringAt:      req.AiringAt,
	})
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &dto.RoomResponse{Room: dto.ToRoom(*room, "", false)}, nil
}

// EnterRoom 打开房间视图并计算闸门状态；已解锁时建立消息订阅。
func (h *RoomHandler) EnterRoom(ctx context.Context, req *dto.RoomRequest) (*dto.RoomResponse, error) {
	roomID, err := parseRoomID(req.RoomID)
	if err != nil {
		return nil, err
	}
	scope, err := openSession(ctx, h.BaseHandler, h.sessions, req.UserID, HandlerTypeCommand)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()

	view, err := scope.session.EnterRoom(scope.ctx, roomID)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return roomView(view), nil
}

// GetRoom 返回已打开房间的闸门状态。
func (h *RoomHandler) GetRoom(ctx context.Context, req *dto.RoomRequest) (*dto.RoomResponse, error) {
	roomID, err := parseRoomID(req.RoomID)
	if err != nil {
		return nil, err
	}
	scope, err := openSession(ctx, h.BaseHandler, h.sessions, req.UserID, HandlerTypeQuery)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()

	view, err := scope.session.Room(roomID)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return roomView(view), nil
}

// VerifyRoom 提交“已看过”确认。
func (h *RoomHandler) VerifyRoom(ctx context.Context, req *dto.RoomRequest) (*dto.RoomResponse, error) {
	roomID, err := parseRoomID(req.RoomID)
	if err != nil {
		return nil, err
	}
	scope, err := openSession(ctx, h.BaseHandler, h.sessions, req.UserID, HandlerTypeCommand)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()

	view, err := scope.session.VerifyRoom(scope.ctx, roomID)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return roomView(view), nil
}

// ListMessages 返回最新的有序消息快照。
func (h *RoomHandler) ListMessages(ctx context.Context, req *dto.RoomRequest) (*dto.MessagesResponse, error) {
	roomID, err := parseRoomID(req.RoomID)
	if err != nil {
		return nil, err
	}
	scope, err := openSession(ctx, h.BaseHandler, h.sessions, req.UserID, HandlerTypeQuery)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()

	msgs, err := scope.session.Messages(roomID)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &dto.MessagesResponse{RoomID: roomID.String(), Messages: dto.ToMessages(msgs)}, nil
}

// PostMessage 在房间发言。
func (h *RoomHandler) PostMessage(ctx context.Context, req *dto.PostMessageRequest) (*dto.PostMessageResponse, error) {
	roomID, err := parseRoomID(req.RoomID)
	if err != nil {
		return nil, err
	}
	scope, err := openSession(ctx, h.BaseHandler, h.sessions, req.UserID, HandlerTypeCommand)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()

	msg, err := scope.session.PostMessage(scope.ctx, roomID, req.Body)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &dto.PostMessageResponse{Message: dto.ToMessage(*msg)}, nil
}

// LeaveRoom 释放房间订阅。
func (h *RoomHandler) LeaveRoom(ctx context.Context, req *dto.RoomRequest) (*dto.LeaveRoomResponse, error) {
	roomID, err := parseRoomID(req.RoomID)
	if err != nil {
		return nil, err
	}
	scope, err := openSession(ctx, h.BaseHandler, h.sessions, req.UserID, HandlerTypeCommand)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()

	if err := scope.session.LeaveRoom(roomID); err != nil {
		return nil, mapServiceError(err)
	}
	return &dto.LeaveRoomResponse{RoomID: roomID.String()}, nil
}

func roomView(view *services.RoomView) *dto.RoomResponse {
	state := view.State()
	return &dto.RoomResponse{Room: dto.ToRoom(view.Room(), state, state == po.GateUnlocked && view.Subscribed())}
}

func parseRoomID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, invalidArgument("invalid room_id %q", raw)
	}
	return id, nil
}
