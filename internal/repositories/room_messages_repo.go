package repositories

import (
	"context"
	"fmt"
	"slices"

	"github.com/bionicotaku/anima-library/internal/models/po"
	"github.com/bionicotaku/anima-library/internal/repositories/mappers"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `message_id, room_id, user_id, body, created_at`

// RoomMessagesRepository 访问 library.room_messages。
type RoomMessagesRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewRoomMessagesRepository 构造仓储实例。
func NewRoomMessagesRepository(db *pgxpool.Pool, logger log.Logger) *RoomMessagesRepository {
	return &RoomMessagesRepository{db: db, log: log.NewHelper(logger)}
}

// Insert 写入消息；CreatedAt 为零值时由数据库分配。
func (r *RoomMessagesRepository) Insert(ctx context.Context, sess txmanager.Session, msg po.RoomMessage) (*po.RoomMessage, error) {
	const query = `
insert into library.room_messages (message_id, room_id, user_id, body, created_at)
values ($1, $2, $3, $4, coalesce($5, now()))
returning ` + messageColumns

	var row mappers.MessageRow
	err := conn(r.db, sess).QueryRow(ctx, query, msg.MessageID, msg.RoomID, msg.UserID, msg.Body, mappers.ToPgTimestamptz(msg.CreatedAt)).
		Scan(&row.MessageID, &row.RoomID, &row.UserID, &row.Body, &row.CreatedAt)
	if err != nil {
		if pgCode(err) == pgCodeForeignKeyViolation {
			return nil, ErrEpisodeRoomNotFound
		}
		r.log.WithContext(ctx).Errorf("insert room message failed: room=%s user=%s err=%v", msg.RoomID, msg.UserID, err)
		return nil, fmt.Errorf("insert room message: %w", translate(err))
	}
	return mappers.RoomMessageFromRow(row), nil
}

// ListRecent 返回房间最近 limit 条消息，按 (created_at, message_id) 升序。
func (r *RoomMessagesRepository) ListRecent(ctx context.Context, sess txmanager.Session, roomID uuid.UUID, limit int) ([]*po.RoomMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `select ` + messageColumns + `
from library.room_messages
where room_id = $1
order by created_at desc, message_id desc
limit $2`

	rows, err := conn(r.db, sess).Query(ctx, query, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("list room messages: %w", translate(err))
	}
	defer rows.Close()

	result := make([]*po.RoomMessage, 0, limit)
	for rows.Next() {
		var row mappers.MessageRow
		if err := rows.Scan(&row.MessageID, &row.RoomID, &row.UserID, &row.Body, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room message: %w", err)
		}
		result = append(result, mappers.RoomMessageFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list room messages: %w", translate(err))
	}
	slices.Reverse(result)
	return result, nil
}
