package controllers

import (
	"context"
	"strings"

	"github.com/bionicotaku/anima-library/internal/controllers/dto"
	"github.com/bionicotaku/anima-library/internal/metadata"
	"github.com/bionicotaku/anima-library/internal/services"

	kerrors "github.com/go-kratos/kratos/v2/errors"
)

// SessionHandler 处理会话级操作（登出）。
type SessionHandler struct {
	*BaseHandler
	sessions *services.SessionRegistry
}

// NewSessionHandler 构造 SessionHandler。
func NewSessionHandler(sessions *services.SessionRegistry, base *BaseHandler) *SessionHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &SessionHandler{BaseHandler: base, sessions: sessions}
}

// Logout 丢弃用户会话，关闭其全部房间订阅。
func (h *SessionHandler) Logout(ctx context.Context, req *dto.LogoutRequest) (*dto.LogoutResponse, error) {
	userID, err := resolveUserID(req.UserID, h.ExtractMetadata(ctx))
	if err != nil {
		return nil, err
	}
	return &dto.LogoutResponse{Existed: h.sessions.Logout(userID)}, nil
}

// sessionScope 是单次请求解析出的调用方会话。
type sessionScope struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session *services.Session
}

// openSession 解析调用方、绑定超时并取得（或创建）会话。调用方负责 cancel。
func openSession(ctx context.Context, base *BaseHandler, sessions *services.SessionRegistry, requestUserID string, kind HandlerType) (*sessionScope, error) {
	meta := base.ExtractMetadata(ctx)
	userID, err := resolveUserID(requestUserID, meta)
	if err != nil {
		return nil, err
	}
	if meta.UserID == "" {
		meta.UserID = userID
	}
	sess, err := sessions.Session(userID)
	if err != nil {
		return nil, mapServiceError(err)
	}
	timeoutCtx, cancel := base.WithTimeout(ctx, kind)
	return &sessionScope{
		ctx:     InjectHandlerMetadata(timeoutCtx, meta),
		cancel:  cancel,
		session: sess,
	}, nil
}

// resolveUserID 优先使用网关注入的身份，缺失时回退到请求中的 user_id。
func resolveUserID(requestUserID string, meta metadata.HandlerMetadata) (string, error) {
	if meta.UserID != "" {
		return meta.UserID, nil
	}
	if id := strings.TrimSpace(requestUserID); id != "" {
		return id, nil
	}
	if meta.InvalidUserInfo {
		return "", kerrors.Unauthorized(ReasonUnauthenticated, "invalid userinfo header")
	}
	return "", invalidArgument("user_id required")
}
