package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	outboxevents "github.com/bionicotaku/anima-library/internal/models/outbox_events"
	"github.com/bionicotaku/anima-library/internal/models/po"
	"github.com/bionicotaku/anima-library/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// MaxMessageRunes 是单条房间消息的最大字符数。
const MaxMessageRunes = 2000

// RoomMessageService 负责房间消息的持久化与广播。
// 消息与 Outbox 事件在同一事务内写入，跨实例分发由 Outbox 发布器负责。
type RoomMessageService struct {
	messages  RoomMessagesRepository
	access    RoomAccessRepository
	outbox    OutboxEnqueuer
	txManager txmanager.Manager
	announcer MessageAnnouncer
	log       *log.Helper
	now       func() time.Time
}

// NewRoomMessageService 构造 RoomMessageService。
func NewRoomMessageService(
	messages RoomMessagesRepository,
	access RoomAccessRepository,
	outbox OutboxEnqueuer,
	tx txmanager.Manager,
	announcer MessageAnnouncer,
	logger log.Logger,
) *RoomMessageService {
	return &RoomMessageService{
		messages:  messages,
		access:    access,
		outbox:    outbox,
		txManager: tx,
		announcer: announcer,
		log:       log.NewHelper(logger),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Post 写入一条消息并广播。
// 写库时复查验证记录，Outbox 写入失败时整条消息回滚；提交后的本地广播失败只记录日志。
func (s *RoomMessageService) Post(ctx context.Context, roomID uuid.UUID, userID, body string) (*po.RoomMessage, error) {
	body = strings.TrimSpace(body)
	if roomID == uuid.Nil || strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: room_id and user_id required", ErrInvalidArgument)
	}
	if body == "" {
		return nil, fmt.Errorf("%w: body required", ErrInvalidArgument)
	}
	if utf8.RuneCountInString(body) > MaxMessageRunes {
		return nil, fmt.Errorf("%w: body exceeds %d characters", ErrInvalidArgument, MaxMessageRunes)
	}

	var stored *po.RoomMessage
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		verified, err := s.access.Exists(txCtx, sess, roomID, userID)
		if err != nil {
			return err
		}
		if !verified {
			return ErrRoomFogged
		}
		stored, err = s.messages.Insert(txCtx, sess, po.RoomMessage{
			MessageID: uuid.New(),
			RoomID:    roomID,
			UserID:    userID,
			Body:      body,
			CreatedAt: s.now(),
		})
		if err != nil {
			return err
		}
		return s.enqueueEvent(txCtx, sess, *stored)
	})
	if err != nil {
		return nil, fmt.Errorf("post room message: %w", mapRepositoryError(err))
	}

	if s.announcer != nil {
		if err := s.announcer.Announce(ctx, *stored); err != nil {
			s.log.WithContext(ctx).Warnf("announce room message failed: room=%s message=%s err=%v", roomID, stored.MessageID, err)
		}
	}
	return stored, nil
}

func (s *RoomMessageService) enqueueEvent(ctx context.Context, sess txmanager.Session, msg po.RoomMessage) error {
	if s.outbox == nil {
		return nil
	}
	out, err := buildOutboxMessage(msg, outboxevents.TraceIDFromContext(ctx))
	if err != nil {
		return err
	}
	if err := s.outbox.Enqueue(ctx, sess, out); err != nil {
		return fmt.Errorf("enqueue room message event: %w", err)
	}
	return nil
}

func buildOutboxMessage(msg po.RoomMessage, traceID string) (repositories.OutboxMessage, error) {
	payload, err := json.Marshal(outboxevents.NewRoomMessagePosted(msg))
	if err != nil {
		return repositories.OutboxMessage{}, fmt.Errorf("marshal event payload: %w", err)
	}
	return repositories.OutboxMessage{
		EventID:       msg.MessageID,
		AggregateType: outboxevents.AggregateTypeEpisodeRoom,
		AggregateID:   msg.RoomID,
		EventType:     outboxevents.EventTypeRoomMessagePosted,
		Payload:       payload,
		Headers:       outboxevents.BuildAttributes(msg, traceID),
		AvailableAt:   msg.CreatedAt,
	}, nil
}

// ListRecent 返回房间最近的消息（按时间升序）。
func (s *RoomMessageService) ListRecent(ctx context.Context, roomID uuid.UUID, limit int) ([]po.RoomMessage, error) {
	items, err := s.messages.ListRecent(ctx, nil, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("list room messages: %w", mapRepositoryError(err))
	}
	out := make([]po.RoomMessage, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out, nil
}
