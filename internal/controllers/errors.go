package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/bionicotaku/anima-library/internal/services"

	kerrors "github.com/go-kratos/kratos/v2/errors"
)

// 对外错误 Reason。
const (
	ReasonInvalidArgument  = "INVALID_ARGUMENT"
	ReasonUnauthenticated  = "UNAUTHENTICATED"
	ReasonPermissionDenied = "PERMISSION_DENIED"
	ReasonEntryNotFound    = "ENTRY_NOT_FOUND"
	ReasonEntryExists      = "ENTRY_EXISTS"
	ReasonRoomNotFound     = "ROOM_NOT_FOUND"
	ReasonRoomLocked       = "ROOM_LOCKED"
	ReasonRoomFogged       = "ROOM_FOGGED"
	ReasonRoomNotOpen      = "ROOM_NOT_OPEN"
	ReasonPostNotAllowed   = "POST_NOT_ALLOWED"
	ReasonSessionClosed    = "SESSION_CLOSED"
	ReasonTimeout          = "DEADLINE_EXCEEDED"
	ReasonInternal         = "INTERNAL"
)

func invalidArgument(format string, args ...any) error {
	return kerrors.BadRequest(ReasonInvalidArgument, fmt.Sprintf(format, args...))
}

// mapServiceError 将 services 层的哨兵错误映射为带 HTTP 状态码的 kratos 错误。
func mapServiceError(err error) error {
	if err == nil {
		return nil
	}
	var se *kerrors.Error
	if errors.As(err, &se) {
		return err
	}

	var mapped *kerrors.Error
	switch {
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, services.ErrInvalidStatus):
		mapped = kerrors.BadRequest(ReasonInvalidArgument, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		mapped = kerrors.Forbidden(ReasonPermissionDenied, err.Error())
	case errors.Is(err, services.ErrEntryNotFound):
		mapped = kerrors.NotFound(ReasonEntryNotFound, err.Error())
	case errors.Is(err, services.ErrEntryExists):
		mapped = kerrors.Conflict(ReasonEntryExists, err.Error())
	case errors.Is(err, services.ErrRoomNotFound):
		mapped = kerrors.NotFound(ReasonRoomNotFound, err.Error())
	case errors.Is(err, services.ErrRoomNotAired):
		mapped = kerrors.Forbidden(ReasonRoomLocked, err.Error())
	case errors.Is(err, services.ErrRoomFogged):
		mapped = kerrors.Forbidden(ReasonRoomFogged, err.Error())
	case errors.Is(err, services.ErrPostNotAllowed):
		mapped = kerrors.Forbidden(ReasonPostNotAllowed, err.Error())
	case errors.Is(err, services.ErrRoomNotOpen):
		mapped = kerrors.Conflict(ReasonRoomNotOpen, err.Error())
	case errors.Is(err, services.ErrSessionClosed):
		mapped = kerrors.Conflict(ReasonSessionClosed, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		mapped = kerrors.GatewayTimeout(ReasonTimeout, err.Error())
	default:
		mapped = kerrors.InternalServer(ReasonInternal, err.Error())
	}
	return mapped.WithCause(err)
}
