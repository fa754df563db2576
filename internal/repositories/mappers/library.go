// Package mappers 负责 pgx 行数据与领域对象之间的转换。
package mappers

import (
	"time"

	"github.com/bionicotaku/anima-library/internal/models/po"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// EntryRow 对应 library.entries 的扫描目标。
type EntryRow struct {
	UserID        string
	TitleID       string
	TitleName     string
	Status        string
	Progress      int32
	TotalEpisodes pgtype.Int4
	Score         pgtype.Float8
	Notes         pgtype.Text
	StartedAt     pgtype.Timestamptz
	CompletedAt   pgtype.Timestamptz
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

// ScanTargets 返回与 EntryColumns 顺序一致的扫描目标。
func (r *EntryRow) ScanTargets() []any {
	return []any{
		&r.UserID,
		&r.TitleID,
		&r.TitleName,
		&r.Status,
		&r.Progress,
		&r.TotalEpisodes,
		&r.Score,
		&r.Notes,
		&r.StartedAt,
		&r.CompletedAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

// EntryColumns 是 library.entries 的标准查询列。
const EntryColumns = `user_id, title_id, title_name, status, progress, total_episodes, score::float8, notes, started_at, completed_at, created_at, updated_at`

// WatchEntryFromRow 转换观看条目。
func WatchEntryFromRow(row EntryRow) *po.WatchEntry {
	return &po.WatchEntry{
		UserID:        row.UserID,
		TitleID:       row.TitleID,
		TitleName:     row.TitleName,
		Status:        po.WatchStatus(row.Status),
		Progress:      row.Progress,
		TotalEpisodes: int4Ptr(row.TotalEpisodes),
		Score:         float8Ptr(row.Score),
		Notes:         textPtr(row.Notes),
		StartedAt:     timestampPtr(row.StartedAt),
		CompletedAt:   timestampPtr(row.CompletedAt),
		CreatedAt:     mustTimestamp(row.CreatedAt),
		UpdatedAt:     mustTimestamp(row.UpdatedAt),
	}
}

// RoomRow 对应 library.episode_rooms 的扫描目标。
type RoomRow struct {
	RoomID        uuid.UUID
	TitleID       string
	EpisodeNumber int32
	AiringAt      pgtype.Timestamptz
	CreatedAt     pgtype.Timestamptz
}

// EpisodeRoomFromRow 转换剧集房间。
func EpisodeRoomFromRow(row RoomRow) *po.EpisodeRoom {
	return &po.EpisodeRoom{
		RoomID:        row.RoomID,
		TitleID:       row.TitleID,
		EpisodeNumber: row.EpisodeNumber,
		AiringAt:      mustTimestamp(row.AiringAt),
		CreatedAt:     mustTimestamp(row.CreatedAt),
	}
}

// MessageRow 对应 library.room_messages 的扫描目标。
type MessageRow struct {
	MessageID uuid.UUID
	RoomID    uuid.UUID
	UserID    string
	Body      string
	CreatedAt pgtype.Timestamptz
}

// RoomMessageFromRow 转换房间消息。
func RoomMessageFromRow(row MessageRow) *po.RoomMessage {
	return &po.RoomMessage{
		MessageID: row.MessageID,
		RoomID:    row.RoomID,
		UserID:    row.UserID,
		Body:      row.Body,
		CreatedAt: mustTimestamp(row.CreatedAt),
	}
}

// ToPgText 将 *string 转换为 pgtype.Text。
func ToPgText(value *string) pgtype.Text {
	if value == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *value, Valid: true}
}

// ToPgInt4 将 *int32 转换为 pgtype.Int4。
func ToPgInt4(value *int32) pgtype.Int4 {
	if value == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *value, Valid: true}
}

// ToPgFloat8 将 *float64 转换为 pgtype.Float8。
func ToPgFloat8(value *float64) pgtype.Float8 {
	if value == nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: *value, Valid: true}
}

// ToPgTimestamptzPtr 将 *time.Time 转换为 pgtype.Timestamptz。
func ToPgTimestamptzPtr(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t.UTC(), Valid: true}
}

// ToPgTimestamptz 将 time.Time 转换为 pgtype.Timestamptz，零值视为 NULL。
func ToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t.UTC(), Valid: true}
}

func textPtr(value pgtype.Text) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func int4Ptr(value pgtype.Int4) *int32 {
	if !value.Valid {
		return nil
	}
	v := value.Int32
	return &v
}

func float8Ptr(value pgtype.Float8) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}

func timestampPtr(value pgtype.Timestamptz) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	return &t
}

func mustTimestamp(value pgtype.Timestamptz) time.Time {
	if !value.Valid {
		return time.Time{}
	}
	return value.Time.UTC()
}
