package repositories

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LibraryAccountsRepository 访问 library.accounts，记录已开通片单的用户。
type LibraryAccountsRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewLibraryAccountsRepository 构造仓储实例。
func NewLibraryAccountsRepository(db *pgxpool.Pool, logger log.Logger) *LibraryAccountsRepository {
	return &LibraryAccountsRepository{db: db, log: log.NewHelper(logger)}
}

// Ensure 幂等开通用户片单。
func (r *LibraryAccountsRepository) Ensure(ctx context.Context, sess txmanager.Session, userID string) error {
	const query = `insert into library.accounts (user_id) values ($1) on conflict (user_id) do nothing`
	if _, err := conn(r.db, sess).Exec(ctx, query, userID); err != nil {
		r.log.WithContext(ctx).Errorf("ensure library account failed: user=%s err=%v", userID, err)
		return fmt.Errorf("ensure library account: %w", translate(err))
	}
	return nil
}

// Exists 判断用户片单是否已开通。
func (r *LibraryAccountsRepository) Exists(ctx context.Context, sess txmanager.Session, userID string) (bool, error) {
	const query = `select exists(select 1 from library.accounts where user_id = $1)`
	var exists bool
	if err := conn(r.db, sess).QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check library account: %w", translate(err))
	}
	return exists, nil
}
