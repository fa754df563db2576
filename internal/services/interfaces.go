package services

import (
	"context"
	"time"

	"github.com/bionicotaku/anima-library/internal/models/po"
	"github.com/bionicotaku/anima-library/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/uuid"
)

// DirectoryService 是 LibraryCache 依赖的远端片单目录。
type DirectoryService interface {
	List(ctx context.Context, userID string) ([]po.WatchEntry, error)
	Add(ctx context.Context, userID string, title po.TitleRef, status po.WatchStatus) (po.WatchEntry, error)
	SetStatus(ctx context.Context, userID, titleID string, status po.WatchStatus) error
	SetProgress(ctx context.Context, userID, titleID string, progress int32) error
	SetScore(ctx context.Context, userID, titleID string, score *float64) error
	SetNotes(ctx context.Context, userID, titleID string, notes *string) error
	Remove(ctx context.Context, userID, titleID string) error
	Stats(ctx context.Context, userID string) (po.LibraryStats, error)
}

// PostEligibilityChecker 判断用户能否在作品相关房间发言。
type PostEligibilityChecker interface {
	CanPost(ctx context.Context, userID, titleID string) (bool, error)
}

// AttestationService 记录与查询“已看过”确认。Verify 幂等。
type AttestationService interface {
	HasAccess(ctx context.Context, roomID uuid.UUID, userID string) (bool, error)
	Verify(ctx context.Context, roomID uuid.UUID, userID string) error
}

// AiringClock 判断剧集是否已播出。
type AiringClock interface {
	IsAired(ctx context.Context, roomID uuid.UUID) (bool, error)
}

// MessageFeed 提供按房间的实时消息推送，返回的 cancel 用于注销监听。
type MessageFeed interface {
	Subscribe(roomID uuid.UUID, listener func(po.RoomMessage)) (cancel func())
}

// MessageHistory 提供房间历史消息。
type MessageHistory interface {
	ListRecent(ctx context.Context, sess txmanager.Session, roomID uuid.UUID, limit int) ([]*po.RoomMessage, error)
}

// MessageStream 是 RoomAccessController 使用的有序消息流。
type MessageStream interface {
	Subscribe(ctx context.Context, roomID uuid.UUID, onMessages func([]po.RoomMessage)) error
	Unsubscribe()
}

// MessageAnnouncer 将新消息广播给所有实例上的订阅者。
type MessageAnnouncer interface {
	Announce(ctx context.Context, msg po.RoomMessage) error
}

// OutboxEnqueuer 在业务事务内写入待发布的领域事件。
type OutboxEnqueuer interface {
	Enqueue(ctx context.Context, sess txmanager.Session, msg repositories.OutboxMessage) error
}

// EntriesRepository 抽象 library.entries 访问。
type EntriesRepository interface {
	Insert(ctx context.Context, sess txmanager.Session, input repositories.InsertEntryInput) (*po.WatchEntry, error)
	Get(ctx context.Context, sess txmanager.Session, userID, titleID string) (*po.WatchEntry, error)
	GetForUpdate(ctx context.Context, sess txmanager.Session, userID, titleID string) (*po.WatchEntry, error)
	ListByUser(ctx context.Context, sess txmanager.Session, userID string) ([]*po.WatchEntry, error)
	UpdateState(ctx context.Context, sess txmanager.Session, input repositories.UpdateStateInput) error
	UpdateScore(ctx context.Context, sess txmanager.Session, userID, titleID string, score *float64, updatedAt time.Time) error
	UpdateNotes(ctx context.Context, sess txmanager.Session, userID, titleID string, notes *string, updatedAt time.Time) error
	Delete(ctx context.Context, sess txmanager.Session, userID, titleID string) error
	Exists(ctx context.Context, sess txmanager.Session, userID, titleID string) (bool, error)
	Stats(ctx context.Context, sess txmanager.Session, userID string) (po.LibraryStats, error)
}

// AccountsRepository 抽象 library.accounts 访问。
type AccountsRepository interface {
	Ensure(ctx context.Context, sess txmanager.Session, userID string) error
	Exists(ctx context.Context, sess txmanager.Session, userID string) (bool, error)
}

// RoomsRepository 抽象 library.episode_rooms 访问。
type RoomsRepository interface {
	Upsert(ctx context.Context, sess txmanager.Session, input repositories.UpsertRoomInput) (*po.EpisodeRoom, error)
	Get(ctx context.Context, sess txmanager.Session, roomID uuid.UUID) (*po.EpisodeRoom, error)
}

// RoomAccessRepository 抽象 library.room_access 访问。
type RoomAccessRepository interface {
	Exists(ctx context.Context, sess txmanager.Session, roomID uuid.UUID, userID string) (bool, error)
	Insert(ctx context.Context, sess txmanager.Session, roomID uuid.UUID, userID string, verifiedAt time.Time) (bool, error)
}

// RoomMessagesRepository 抽象 library.room_messages 访问。
type RoomMessagesRepository interface {
	MessageHistory
	Insert(ctx context.Context, sess txmanager.Session, msg po.RoomMessage) (*po.RoomMessage, error)
}

var (
	_ DirectoryService       = (*LibraryDirectory)(nil)
	_ PostEligibilityChecker = (*LibraryDirectory)(nil)
	_ AttestationService     = (*RoomAttestationService)(nil)
	_ AiringClock            = (*EpisodeAiringClock)(nil)
	_ MessageStream          = (*MessageStreamAdapter)(nil)

	_ EntriesRepository      = (*repositories.LibraryEntriesRepository)(nil)
	_ AccountsRepository     = (*repositories.LibraryAccountsRepository)(nil)
	_ RoomsRepository        = (*repositories.EpisodeRoomsRepository)(nil)
	_ RoomAccessRepository   = (*repositories.RoomAccessRepository)(nil)
	_ RoomMessagesRepository = (*repositories.RoomMessagesRepository)(nil)
	_ OutboxEnqueuer         = (*repositories.OutboxRepository)(nil)
)
