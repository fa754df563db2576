package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/anima-library/internal/models/po"
	"github.com/bionicotaku/anima-library/internal/repositories/mappers"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEpisodeRoomNotFound 表示剧集房间不存在。
var ErrEpisodeRoomNotFound = errors.New("episode room not found")

const roomColumns = `room_id, title_id, episode_number, airing_at, created_at`

// EpisodeRoomsRepository 访问 library.episode_rooms。
type EpisodeRoomsRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewEpisodeRoomsRepository 构造仓储实例。
func NewEpisodeRoomsRepository(db *pgxpool.Pool, logger log.Logger) *EpisodeRoomsRepository {
	return &EpisodeRoomsRepository{db: db, log: log.NewHelper(logger)}
}

// UpsertRoomInput 描述房间登记参数。
type UpsertRoomInput struct {
	RoomID        uuid.UUID
	TitleID       string
	EpisodeNumber int32
	AiringAt      time.Time
}

// Upsert 按 (title_id, episode_number) 登记房间；已存在时仅更新播出时间。
func (r *EpisodeRoomsRepository) Upsert(ctx context.Context, sess txmanager.Session, input UpsertRoomInput) (*po.EpisodeRoom, error) {
	const query = `
insert into library.episode_rooms (room_id, title_id, episode_number, airing_at)
values ($1, $2, $3, $4)
on conflict (title_id, episode_number) do update set airing_at = excluded.airing_at
returning ` + roomColumns

	var row mappers.RoomRow
	err := conn(r.db, sess).QueryRow(ctx, query,
		input.RoomID,
		input.TitleID,
		input.EpisodeNumber,
		mappers.ToPgTimestamptz(input.AiringAt),
	).Scan(&row.RoomID, &row.TitleID, &row.EpisodeNumber, &row.AiringAt, &row.CreatedAt)
	if err != nil {
		r.log.WithContext(ctx).Errorf("upsert episode room failed: title=%s episode=%d err=%v", input.TitleID, input.EpisodeNumber, err)
		return nil, fmt.Errorf("upsert episode room: %w", translate(err))
	}
	return mappers.EpisodeRoomFromRow(row), nil
}

// Get 返回房间信息。
func (r *EpisodeRoomsRepository) Get(ctx context.Context, sess txmanager.Session, roomID uuid.UUID) (*po.EpisodeRoom, error) {
	const query = `select ` + roomColumns + ` from library.episode_rooms where room_id = $1`

	var row mappers.RoomRow
	err := conn(r.db, sess).QueryRow(ctx, query, roomID).
		Scan(&row.RoomID, &row.TitleID, &row.EpisodeNumber, &row.AiringAt, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEpisodeRoomNotFound
		}
		return nil, fmt.Errorf("get episode room: %w", translate(err))
	}
	return mappers.EpisodeRoomFromRow(row), nil
}
