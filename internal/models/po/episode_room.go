package po

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

// GateState 表示讨论房间对某用户的访问阶段。
type GateState string

const (
	// GateLocked 剧集尚未播出。
	GateLocked GateState = "locked"
	// GateFog 已播出但用户尚未确认看过。
	GateFog GateState = "fog"
	// GateUnlocked 可见消息流，终态。
	GateUnlocked GateState = "unlocked"
)

// EpisodeRoom 表示 library.episode_rooms 表的行。
type EpisodeRoom struct {
	RoomID        uuid.UUID
	TitleID       string
	EpisodeNumber int32
	AiringAt      time.Time
	CreatedAt     time.Time
}

// IsAired 判断在 now 时刻剧集是否已播出。
func (r EpisodeRoom) IsAired(now time.Time) bool {
	return !now.Before(r.AiringAt)
}

// AccessRecord 表示 library.room_access 表的行。
type AccessRecord struct {
	RoomID     uuid.UUID
	UserID     string
	VerifiedAt time.Time
}

// RoomMessage 表示 library.room_messages 表的行。
type RoomMessage struct {
	MessageID uuid.UUID
	RoomID    uuid.UUID
	UserID    string
	Body      string
	CreatedAt time.Time
}

// Less 按 (CreatedAt, MessageID) 排序，MessageID 按字节序比较，与数据库 uuid 排序一致。
func (m RoomMessage) Less(other RoomMessage) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return bytes.Compare(m.MessageID[:], other.MessageID[:]) < 0
}
