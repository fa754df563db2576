package repositories

import (
	"context"
	"errors"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrPermissionDenied 表示数据库拒绝访问（SQLSTATE 42501）。
var ErrPermissionDenied = errors.New("library storage: permission denied")

const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
	pgCodeInsufficientPriv    = "42501"
)

// dbtx 抽象连接池与事务共有的查询能力。
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// conn 在事务会话存在时返回事务句柄，否则回落到连接池。
func conn(pool *pgxpool.Pool, sess txmanager.Session) dbtx {
	if sess != nil {
		if tx := sess.Tx(); tx != nil {
			return tx
		}
	}
	return pool
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// translate 将权限类错误统一为 ErrPermissionDenied，其余原样返回。
func translate(err error) error {
	if err == nil {
		return nil
	}
	if pgCode(err) == pgCodeInsufficientPriv {
		return ErrPermissionDenied
	}
	return err
}
