package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bionicotaku/anima-library/internal/models/po"
	"github.com/bionicotaku/anima-library/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

const (
	maxScore       = 10.0
	maxNotesLength = 4000
)

// LibraryDirectory 是基于 PostgreSQL 的片单目录服务，供每个会话的 LibraryCache 调用。
type LibraryDirectory struct {
	entries   EntriesRepository
	accounts  AccountsRepository
	txManager txmanager.Manager
	log       *log.Helper
	now       func() time.Time
}

// NewLibraryDirectory 构造 LibraryDirectory。
func NewLibraryDirectory(
	entries EntriesRepository,
	accounts AccountsRepository,
	tx txmanager.Manager,
	logger log.Logger,
) *LibraryDirectory {
	return &LibraryDirectory{
		entries:   entries,
		accounts:  accounts,
		txManager: tx,
		log:       log.NewHelper(logger),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List 返回用户全部条目；未开通片单的用户返回 ErrPermissionDenied。
func (d *LibraryDirectory) List(ctx context.Context, userID string) ([]po.WatchEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user_id required", ErrInvalidArgument)
	}
	var result []po.WatchEntry
	err := d.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		if err := d.requireAccount(txCtx, sess, userID); err != nil {
			return err
		}
		items, err := d.entries.ListByUser(txCtx, sess, userID)
		if err != nil {
			return err
		}
		result = make([]po.WatchEntry, 0, len(items))
		for _, item := range items {
			result = append(result, *item)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list library: %w", mapRepositoryError(err))
	}
	return result, nil
}

// Add 收录作品，必要时开通用户片单。
func (d *LibraryDirectory) Add(ctx context.Context, userID string, title po.TitleRef, status po.WatchStatus) (po.WatchEntry, error) {
	if status == "" {
		status = po.WatchStatusPlanning
	}
	if err := validateAdd(userID, title, status); err != nil {
		return po.WatchEntry{}, err
	}

	now := d.now()
	transition := DeriveTransition(po.WatchEntry{Status: po.WatchStatusPlanning, TotalEpisodes: title.TotalEpisodes}, StatusChange(status), now)

	var created *po.WatchEntry
	err := d.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		if err := d.accounts.Ensure(txCtx, sess, userID); err != nil {
			return err
		}
		entry, err := d.entries.Insert(txCtx, sess, repositories.InsertEntryInput{
			UserID:        userID,
			TitleID:       strings.TrimSpace(title.TitleID),
			TitleName:     strings.TrimSpace(title.TitleName),
			Status:        transition.Status,
			TotalEpisodes: title.TotalEpisodes,
			StartedAt:     transition.StartedAt,
			CompletedAt:   transition.CompletedAt,
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}
		created = entry
		return nil
	})
	if err != nil {
		return po.WatchEntry{}, fmt.Errorf("add library entry: %w", mapRepositoryError(err))
	}
	d.log.WithContext(ctx).Debugf("library entry added: user=%s title=%s status=%s", userID, created.TitleID, created.Status)
	return *created, nil
}

// SetStatus 显式修改状态，并按状态机维护起止时间。
func (d *LibraryDirectory) SetStatus(ctx context.Context, userID, titleID string, status po.WatchStatus) error {
	if err := validateKey(userID, titleID); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return d.applyChange(ctx, "set status", userID, titleID, StatusChange(status), nil)
}

// SetProgress 修改进度，并按状态机推导状态。
func (d *LibraryDirectory) SetProgress(ctx context.Context, userID, titleID string, progress int32) error {
	if err := validateKey(userID, titleID); err != nil {
		return err
	}
	if progress < 0 {
		return fmt.Errorf("%w: progress must be non-negative", ErrInvalidArgument)
	}
	return d.applyChange(ctx, "set progress", userID, titleID, ProgressChange(progress), &progress)
}

func (d *LibraryDirectory) applyChange(ctx context.Context, op, userID, titleID string, change Change, progress *int32) error {
	err := d.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		current, err := d.entries.GetForUpdate(txCtx, sess, userID, titleID)
		if err != nil {
			return err
		}
		now := d.now()
		transition := DeriveTransition(*current, change, now)
		next := current.Progress
		if progress != nil {
			next = *progress
		}
		return d.entries.UpdateState(txCtx, sess, repositories.UpdateStateInput{
			UserID:      userID,
			TitleID:     titleID,
			Status:      transition.Status,
			Progress:    next,
			StartedAt:   transition.StartedAt,
			CompletedAt: transition.CompletedAt,
			UpdatedAt:   now,
		})
	})
	if err != nil {
		mapped := mapRepositoryError(err)
		if !errors.Is(mapped, ErrEntryNotFound) {
			d.log.WithContext(ctx).Errorf("%s failed: user=%s title=%s err=%v", op, userID, titleID, err)
		}
		return fmt.Errorf("%s: %w", op, mapped)
	}
	return nil
}

// SetScore 修改评分，nil 表示清除。
func (d *LibraryDirectory) SetScore(ctx context.Context, userID, titleID string, score *float64) error {
	if err := validateKey(userID, titleID); err != nil {
		return err
	}
	if score != nil && (*score < 0 || *score > maxScore) {
		return fmt.Errorf("%w: score must be within [0, %g]", ErrInvalidArgument, maxScore)
	}
	if err := d.entries.UpdateScore(ctx, nil, userID, titleID, score, d.now()); err != nil {
		return fmt.Errorf("set score: %w", mapRepositoryError(err))
	}
	return nil
}

// SetNotes 修改备注，nil 表示清除。
func (d *LibraryDirectory) SetNotes(ctx context.Context, userID, titleID string, notes *string) error {
	if err := validateKey(userID, titleID); err != nil {
		return err
	}
	if notes != nil && utf8.RuneCountInString(*notes) > maxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidArgument, maxNotesLength)
	}
	if err := d.entries.UpdateNotes(ctx, nil, userID, titleID, notes, d.now()); err != nil {
		return fmt.Errorf("set notes: %w", mapRepositoryError(err))
	}
	return nil
}

// Remove 删除条目。
func (d *LibraryDirectory) Remove(ctx context.Context, userID, titleID string) error {
	if err := validateKey(userID, titleID); err != nil {
		return err
	}
	if err := d.entries.Delete(ctx, nil, userID, titleID); err != nil {
		return fmt.Errorf("remove library entry: %w", mapRepositoryError(err))
	}
	return nil
}

// Stats 返回聚合统计；未开通片单的用户返回 ErrPermissionDenied。
func (d *LibraryDirectory) Stats(ctx context.Context, userID string) (po.LibraryStats, error) {
	if strings.TrimSpace(userID) == "" {
		return po.LibraryStats{}, fmt.Errorf("%w: user_id required", ErrInvalidArgument)
	}
	var stats po.LibraryStats
	err := d.txManager.WithinReadOnlyTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		if err := d.requireAccount(txCtx, sess, userID); err != nil {
			return err
		}
		var err error
		stats, err = d.entries.Stats(txCtx, sess, userID)
		return err
	})
	if err != nil {
		return po.LibraryStats{}, fmt.Errorf("library stats: %w", mapRepositoryError(err))
	}
	return stats, nil
}

// CanPost 仅允许已收录该作品的用户在其房间发言。
func (d *LibraryDirectory) CanPost(ctx context.Context, userID, titleID string) (bool, error) {
	if err := validateKey(userID, titleID); err != nil {
		return false, err
	}
	ok, err := d.entries.Exists(ctx, nil, userID, titleID)
	if err != nil {
		return false, fmt.Errorf("check can post: %w", mapRepositoryError(err))
	}
	return ok, nil
}

func (d *LibraryDirectory) requireAccount(ctx context.Context, sess txmanager.Session, userID string) error {
	ok, err := d.accounts.Exists(ctx, sess, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPermissionDenied
	}
	return nil
}

func validateKey(userID, titleID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user_id required", ErrInvalidArgument)
	}
	if strings.TrimSpace(titleID) == "" {
		return fmt.Errorf("%w: title_id required", ErrInvalidArgument)
	}
	return nil
}

func validateAdd(userID string, title po.TitleRef, status po.WatchStatus) error {
	if err := validateKey(userID, title.TitleID); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if title.TotalEpisodes != nil && *title.TotalEpisodes < 0 {
		return fmt.Errorf("%w: total_episodes must be non-negative", ErrInvalidArgument)
	}
	return nil
}

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPermissionDenied):
		return ErrPermissionDenied
	case errors.Is(err, repositories.ErrEntryNotFound):
		return ErrEntryNotFound
	case errors.Is(err, repositories.ErrEntryExists):
		return ErrEntryExists
	case errors.Is(err, repositories.ErrEpisodeRoomNotFound):
		return ErrRoomNotFound
	default:
		return err
	}
}
