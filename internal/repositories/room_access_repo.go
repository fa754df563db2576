package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bionicotaku/anima-library/internal/repositories/mappers"
)

// RoomAccessRepository 访问 library.room_access。
type RoomAccessRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewRoomAccessRepository 构造仓储实例。
func NewRoomAccessRepository(db *pgxpool.Pool, logger log.Logger) *RoomAccessRepository {
	return &RoomAccessRepository{db: db, log: log.NewHelper(logger)}
}

// Exists 判断 (room, user) 是否存在验证记录。
func (r *RoomAccessRepository) Exists(ctx context.Context, sess txmanager.Session, roomID uuid.UUID, userID string) (bool, error) {
	const query = `select exists(select 1 from library.room_access where room_id = $1 and user_id = $2)`
	var exists bool
	if err := conn(r.db, sess).QueryRow(ctx, query, roomID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check room access: %w", translate(err))
	}
	return exists, nil
}

// Insert 写入验证记录；记录已存在时不修改 verified_at，返回 false。
func (r *RoomAccessRepository) Insert(ctx context.Context, sess txmanager.Session, roomID uuid.UUID, userID string, verifiedAt time.Time) (bool, error) {
	const query = `
insert into library.room_access (room_id, user_id, verified_at)
values ($1, $2, coalesce($3, now()))
on conflict (room_id, user_id) do nothing`

	tag, err := conn(r.db, sess).Exec(ctx, query, roomID, userID, mappers.ToPgTimestamptz(verifiedAt))
	if err != nil {
		if pgCode(err) == pgCodeForeignKeyViolation {
			return false, ErrEpisodeRoomNotFound
		}
		r.log.WithContext(ctx).Errorf("insert room access failed: room=%s user=%s err=%v", roomID, userID, err)
		return false, fmt.Errorf("insert room access: %w", translate(err))
	}
	return tag.RowsAffected() > 0, nil
}
