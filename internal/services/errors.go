package services

import "errors"

var (
	// ErrPermissionDenied 表示目录服务拒绝访问；读路径上视为“尚未开通”。
	ErrPermissionDenied = errors.New("library: permission denied")
	// ErrEntryNotFound 表示片单中没有该作品。
	ErrEntryNotFound = errors.New("library: entry not found")
	// ErrEntryExists 表示作品已在片单中。
	ErrEntryExists = errors.New("library: entry already exists")
	// ErrInvalidArgument 表示参数校验失败。
	ErrInvalidArgument = errors.New("library: invalid argument")
	// ErrInvalidStatus 表示未知的观看状态或筛选值。
	ErrInvalidStatus = errors.New("library: invalid status")

	// ErrRoomNotFound 表示剧集房间不存在。
	ErrRoomNotFound = errors.New("room: not found")
	// ErrRoomNotAired 表示剧集尚未播出，房间处于 LOCKED。
	ErrRoomNotAired = errors.New("room: episode has not aired")
	// ErrRoomFogged 表示用户尚未确认看过，房间处于 FOG。
	ErrRoomFogged = errors.New("room: episode not verified")
	// ErrRoomNotOpen 表示会话中没有打开该房间。
	ErrRoomNotOpen = errors.New("room: not open in session")
	// ErrAlreadySubscribed 表示消息流已处于订阅状态。
	ErrAlreadySubscribed = errors.New("room: stream already subscribed")
	// ErrPostNotAllowed 表示用户不满足发言条件。
	ErrPostNotAllowed = errors.New("room: posting not allowed")

	// ErrSessionClosed 表示会话已注销或过期。
	ErrSessionClosed = errors.New("session: closed")
)
