package dto

import (
	"time"

	"github.com/bionicotaku/anima-library/internal/models/po"
)

// RegisterRoomRequest 对应 POST /v1/rooms。
type RegisterRoomRequest struct {
	TitleID       string    `json:"title_id"`
	EpisodeNumber int32     `json:"episode_number"`
	AiringAt      time.Time `json:"airing_at"`
}

// RoomRequest 定位会话中的房间。
type RoomRequest struct {
	UserID string `json:"user_id,omitempty"`
	RoomID string `json:"room_id"`
}

// PostMessageRequest 对应 POST /v1/rooms/{room_id}/messages。
type PostMessageRequest struct {
	UserID string `json:"user_id,omitempty"`
	RoomID string `json:"room_id"`
	Body   string `json:"body"`
}

// LogoutRequest 对应 DELETE /v1/session。
type LogoutRequest struct {
	UserID string `json:"user_id,omitempty"`
}

// Room 是房间与闸门状态的对外表示。
type Room struct {
	RoomID        string    `json:"room_id"`
	TitleID       string    `json:"title_id"`
	EpisodeNumber int32     `json:"episode_number"`
	AiringAt      time.Time `json:"airing_at"`
	State         string    `json:"state,omitempty"`
	Subscribed    bool      `json:"subscribed"`
}

// RoomResponse 包装 Room。
type RoomResponse struct {
	Room Room `json:"room"`
}

// Message 是房间消息的对外表示。
type Message struct {
	MessageID string    `json:"message_id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// MessagesResponse 返回有序消息快照。
type MessagesResponse struct {
	RoomID   string    `json:"room_id"`
	Messages []Message `json:"messages"`
}

// PostMessageResponse 返回已写入的消息。
type PostMessageResponse struct {
	Message Message `json:"message"`
}

// LeaveRoomResponse 表示已释放的房间。
type LeaveRoomResponse struct {
	RoomID string `json:"room_id"`
}

// LogoutResponse 表示是否存在被丢弃的会话。
type LogoutResponse struct {
	Existed bool `json:"existed"`
}

// ToRoom 转换房间信息与闸门状态。
func ToRoom(room po.EpisodeRoom, state po.GateState, subscribed bool) Room {
	return Room{
		RoomID:        room.RoomID.String(),
		TitleID:       room.TitleID,
		EpisodeNumber: room.EpisodeNumber,
		AiringAt:      room.AiringAt.UTC(),
		State:         string(state),
		Subscribed:    subscribed,
	}
}

// ToMessage 转换单条消息。
func ToMessage(msg po.RoomMessage) Message {
	return Message{
		MessageID: msg.MessageID.String(),
		RoomID:    msg.RoomID.String(),
		UserID:    msg.UserID,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt.UTC(),
	}
}

// ToMessages 批量转换，空列表返回非 nil 切片。
func ToMessages(msgs []po.RoomMessage) []Message {
	out := make([]Message, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, ToMessage(msg))
	}
	return out
}
