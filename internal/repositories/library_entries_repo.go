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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrEntryNotFound 表示片单条目不存在。
	ErrEntryNotFound = errors.New("library entry not found")
	// ErrEntryExists 表示同一用户已收录该作品。
	ErrEntryExists = errors.New("library entry already exists")
)

// LibraryEntriesRepository 访问 library.entries。
type LibraryEntriesRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewLibraryEntriesRepository 构造仓储实例。
func NewLibraryEntriesRepository(db *pgxpool.Pool, logger log.Logger) *LibraryEntriesRepository {
	return &LibraryEntriesRepository{
		db:  db,
		log: log.NewHelper(logger),
	}
}

// InsertEntryInput 描述新增条目的参数。
type InsertEntryInput struct {
	UserID        string
	TitleID       string
	TitleName     string
	Status        po.WatchStatus
	TotalEpisodes *int32
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
}

// Insert 新增条目并返回落库后的记录。
func (r *LibraryEntriesRepository) Insert(ctx context.Context, sess txmanager.Session, input InsertEntryInput) (*po.WatchEntry, error) {
	const query = `
insert into library.entries (user_id, title_id, title_name, status, progress, total_episodes, started_at, completed_at, created_at, updated_at)
values ($1, $2, $3, $4, 0, $5, $6, $7, coalesce($8, now()), coalesce($8, now()))
returning ` + mappers.EntryColumns

	var row mappers.EntryRow
	err := conn(r.db, sess).QueryRow(ctx, query,
		input.UserID,
		input.TitleID,
		input.TitleName,
		string(input.Status),
		mappers.ToPgInt4(input.TotalEpisodes),
		mappers.ToPgTimestamptzPtr(input.StartedAt),
		mappers.ToPgTimestamptzPtr(input.CompletedAt),
		mappers.ToPgTimestamptz(input.CreatedAt),
	).Scan(row.ScanTargets()...)
	if err != nil {
		if pgCode(err) == pgCodeUniqueViolation {
			return nil, ErrEntryExists
		}
		r.log.WithContext(ctx).Errorf("insert library entry failed: user=%s title=%s err=%v", input.UserID, input.TitleID, err)
		return nil, fmt.Errorf("insert library entry: %w", translate(err))
	}
	return mappers.WatchEntryFromRow(row), nil
}

// Get 返回单个条目。
func (r *LibraryEntriesRepository) Get(ctx context.Context, sess txmanager.Session, userID, titleID string) (*po.WatchEntry, error) {
	const query = `select ` + mappers.EntryColumns + ` from library.entries where user_id = $1 and title_id = $2`

	var row mappers.EntryRow
	if err := conn(r.db, sess).QueryRow(ctx, query, userID, titleID).Scan(row.ScanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("get library entry: %w", translate(err))
	}
	return mappers.WatchEntryFromRow(row), nil
}

// GetForUpdate 返回条目并对该行加锁，仅在事务内有意义。
func (r *LibraryEntriesRepository) GetForUpdate(ctx context.Context, sess txmanager.Session, userID, titleID string) (*po.WatchEntry, error) {
	const query = `select ` + mappers.EntryColumns + ` from library.entries where user_id = $1 and title_id = $2 for update`

	var row mappers.EntryRow
	if err := conn(r.db, sess).QueryRow(ctx, query, userID, titleID).Scan(row.ScanTargets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("lock library entry: %w", translate(err))
	}
	return mappers.WatchEntryFromRow(row), nil
}

// ListByUser 按加入时间倒序返回用户的全部条目。
func (r *LibraryEntriesRepository) ListByUser(ctx context.Context, sess txmanager.Session, userID string) ([]*po.WatchEntry, error) {
	const query = `select ` + mappers.EntryColumns + `
from library.entries
where user_id = $1
order by created_at desc, title_id asc`

	rows, err := conn(r.db, sess).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list library entries: %w", translate(err))
	}
	defer rows.Close()

	result := make([]*po.WatchEntry, 0)
	for rows.Next() {
		var row mappers.EntryRow
		if err := rows.Scan(row.ScanTargets()...); err != nil {
			return nil, fmt.Errorf("scan library entry: %w", err)
		}
		result = append(result, mappers.WatchEntryFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list library entries: %w", translate(err))
	}
	return result, nil
}

// UpdateStateInput 描述状态/进度写入参数。
type UpdateStateInput struct {
	UserID      string
	TitleID     string
	Status      po.WatchStatus
	Progress    int32
	StartedAt   *time.Time
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

// UpdateState 写入状态、进度与起止时间。
func (r *LibraryEntriesRepository) UpdateState(ctx context.Context, sess txmanager.Session, input UpdateStateInput) error {
	const query = `
update library.entries
set status = $3, progress = $4, started_at = $5, completed_at = $6, updated_at = coalesce($7, now())
where user_id = $1 and title_id = $2`

	tag, err := conn(r.db, sess).Exec(ctx, query,
		input.UserID,
		input.TitleID,
		string(input.Status),
		input.Progress,
		mappers.ToPgTimestamptzPtr(input.StartedAt),
		mappers.ToPgTimestamptzPtr(input.CompletedAt),
		mappers.ToPgTimestamptz(input.UpdatedAt),
	)
	if err != nil {
		r.log.WithContext(ctx).Errorf("update library entry state failed: user=%s title=%s err=%v", input.UserID, input.TitleID, err)
		return fmt.Errorf("update library entry state: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// UpdateScore 写入评分，nil 表示清空。
func (r *LibraryEntriesRepository) UpdateScore(ctx context.Context, sess txmanager.Session, userID, titleID string, score *float64, updatedAt time.Time) error {
	const query = `update library.entries set score = $3, updated_at = coalesce($4, now()) where user_id = $1 and title_id = $2`

	tag, err := conn(r.db, sess).Exec(ctx, query, userID, titleID, mappers.ToPgFloat8(score), mappers.ToPgTimestamptz(updatedAt))
	if err != nil {
		return fmt.Errorf("update library entry score: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// UpdateNotes 写入备注，nil 表示清空。
func (r *LibraryEntriesRepository) UpdateNotes(ctx context.Context, sess txmanager.Session, userID, titleID string, notes *string, updatedAt time.Time) error {
	const query = `update library.entries set notes = $3, updated_at = coalesce($4, now()) where user_id = $1 and title_id = $2`

	tag, err := conn(r.db, sess).Exec(ctx, query, userID, titleID, mappers.ToPgText(notes), mappers.ToPgTimestamptz(updatedAt))
	if err != nil {
		return fmt.Errorf("update library entry notes: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Delete 删除条目。
func (r *LibraryEntriesRepository) Delete(ctx context.Context, sess txmanager.Session, userID, titleID string) error {
	const query = `delete from library.entries where user_id = $1 and title_id = $2`

	tag, err := conn(r.db, sess).Exec(ctx, query, userID, titleID)
	if err != nil {
		r.log.WithContext(ctx).Errorf("delete library entry failed: user=%s title=%s err=%v", userID, titleID, err)
		return fmt.Errorf("delete library entry: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Exists 判断用户是否收录了该作品。
func (r *LibraryEntriesRepository) Exists(ctx context.Context, sess txmanager.Session, userID, titleID string) (bool, error) {
	const query = `select exists(select 1 from library.entries where user_id = $1 and title_id = $2)`

	var exists bool
	if err := conn(r.db, sess).QueryRow(ctx, query, userID, titleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check library entry: %w", translate(err))
	}
	return exists, nil
}

// Stats 以单条聚合查询计算用户片单统计。
func (r *LibraryEntriesRepository) Stats(ctx context.Context, sess txmanager.Session, userID string) (po.LibraryStats, error) {
	const query = `
select
	count(*),
	count(*) filter (where status = 'planning'),
	count(*) filter (where status = 'watching'),
	count(*) filter (where status = 'paused'),
	count(*) filter (where status = 'dropped'),
	count(*) filter (where status = 'completed'),
	coalesce(sum(progress), 0)::bigint,
	count(score),
	avg(score)::float8
from library.entries
where user_id = $1`

	var (
		stats po.LibraryStats
		avg   *float64
	)
	err := conn(r.db, sess).QueryRow(ctx, query, userID).Scan(
		&stats.Total,
		&stats.Planning,
		&stats.Watching,
		&stats.Paused,
		&stats.Dropped,
		&stats.Completed,
		&stats.EpisodesWatched,
		&stats.ScoredCount,
		&avg,
	)
	if err != nil {
		return po.LibraryStats{}, fmt.Errorf("library stats: %w", translate(err))
	}
	stats.AverageScore = avg
	return stats, nil
}
