package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

// RoomAttestationService 记录用户对剧集“已看过”的确认。
type RoomAttestationService struct {
	access    RoomAccessRepository
	rooms     RoomsRepository
	txManager txmanager.Manager
	log       *log.Helper
	now       func() time.Time
}

// NewRoomAttestationService 构造 RoomAttestationService。
func NewRoomAttestationService(
	access RoomAccessRepository,
	rooms RoomsRepository,
	tx txmanager.Manager,
	logger log.Logger,
) *RoomAttestationService {
	return &RoomAttestationService{
		access:    access,
		rooms:     rooms,
		txManager: tx,
		log:       log.NewHelper(logger),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// HasAccess 判断是否存在验证记录。
func (s *RoomAttestationService) HasAccess(ctx context.Context, roomID uuid.UUID, userID string) (bool, error) {
	if roomID == uuid.Nil || strings.TrimSpace(userID) == "" {
		return false, fmt.Errorf("%w: room_id and user_id required", ErrInvalidArgument)
	}
	ok, err := s.access.Exists(ctx, nil, roomID, userID)
	if err != nil {
		return false, fmt.Errorf("has access: %w", mapRepositoryError(err))
	}
	return ok, nil
}

// Verify 写入验证记录；重复验证不报错且保留首次时间。
func (s *RoomAttestationService) Verify(ctx context.Context, roomID uuid.UUID, userID string) error {
	if roomID == uuid.Nil || strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: room_id and user_id required", ErrInvalidArgument)
	}
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		if _, err := s.rooms.Get(txCtx, sess, roomID); err != nil {
			return err
		}
		inserted, err := s.access.Insert(txCtx, sess, roomID, userID, s.now())
		if err != nil {
			return err
		}
		if !inserted {
			s.log.WithContext(txCtx).Debugf("room access already verified: room=%s user=%s", roomID, userID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("verify room access: %w", mapRepositoryError(err))
	}
	return nil
}
