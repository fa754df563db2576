package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	outboxevents "github.com/bionicotaku/anima-library/internal/models/outbox_events"
	"github.com/bionicotaku/anima-library/internal/models/po"
	"github.com/bionicotaku/anima-library/internal/repositories"
	"github.com/bionicotaku/anima-library/internal/services"
	"github.com/bionicotaku/anima-library/internal/services/mocks"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRoomMessageService_PostPersistsAndAnnounces(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mocks.NewMockRoomMessagesRepository(ctrl)
	access := mocks.NewMockRoomAccessRepository(ctrl)
	announcer := mocks.NewMockMessageAnnouncer(ctrl)
	outbox := mocks.NewMockOutboxEnqueuer(ctrl)
	svc := services.NewRoomMessageService(messages, access, outbox, &fakeTxManager{}, announcer, log.NewStdLogger(io.Discard))

	roomID := uuid.New()
	access.EXPECT().Exists(gomock.Any(), gomock.Any(), roomID, "user-1").Return(true, nil)
	messages.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.AssignableToTypeOf(po.RoomMessage{})).
		DoAndReturn(func(_ context.Context, _ interface{}, msg po.RoomMessage) (*po.RoomMessage, error) {
			require.NotEqual(t, uuid.Nil, msg.MessageID)
			require.Equal(t, "hello", msg.Body)
			require.False(t, msg.CreatedAt.IsZero())
			return &msg, nil
		})
	var enqueued repositories.OutboxMessage
	outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.AssignableToTypeOf(repositories.OutboxMessage{})).
		DoAndReturn(func(_ context.Context, sess txmanager.Session, msg repositories.OutboxMessage) error {
			require.NotNil(t, sess, "event must be written inside the message transaction")
			enqueued = msg
			return nil
		})
	announcer.EXPECT().Announce(gomock.Any(), gomock.AssignableToTypeOf(po.RoomMessage{})).Return(nil)

	stored, err := svc.Post(context.Background(), roomID, "user-1", "  hello \n")
	require.NoError(t, err)
	require.Equal(t, "hello", stored.Body)
	require.Equal(t, roomID, stored.RoomID)

	require.Equal(t, stored.MessageID, enqueued.EventID)
	require.Equal(t, roomID, enqueued.AggregateID)
	require.Equal(t, outboxevents.AggregateTypeEpisodeRoom, enqueued.AggregateType)
	require.Equal(t, outboxevents.EventTypeRoomMessagePosted, enqueued.EventType)
	require.Equal(t, outboxevents.SchemaVersionV1, enqueued.Headers["schema_version"])
	require.True(t, stored.CreatedAt.Equal(enqueued.AvailableAt))

	var payload outboxevents.RoomMessagePosted
	require.NoError(t, json.Unmarshal(enqueued.Payload, &payload))
	decoded, err := payload.Message()
	require.NoError(t, err)
	require.Equal(t, stored.MessageID, decoded.MessageID)
	require.Equal(t, "hello", decoded.Body)
	require.True(t, stored.CreatedAt.Equal(decoded.CreatedAt))
}

func TestRoomMessageService_EnqueueFailureRollsBackPost(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mocks.NewMockRoomMessagesRepository(ctrl)
	access := mocks.NewMockRoomAccessRepository(ctrl)
	announcer := mocks.NewMockMessageAnnouncer(ctrl)
	outbox := mocks.NewMockOutboxEnqueuer(ctrl)
	tx := &recordingTxManager{}
	svc := services.NewRoomMessageService(messages, access, outbox, tx, announcer, log.NewStdLogger(io.Discard))

	roomID := uuid.New()
	enqueueErr := errors.New("outbox table unavailable")
	gomock.InOrder(
		access.EXPECT().Exists(gomock.Any(), gomock.Any(), roomID, "user-1").Return(true, nil),
		messages.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, msg po.RoomMessage) (*po.RoomMessage, error) {
				return &msg, nil
			}),
		outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(enqueueErr),
	)
	// 事务失败时不得做本地广播。
	announcer.EXPECT().Announce(gomock.Any(), gomock.Any()).Times(0)

	stored, err := svc.Post(context.Background(), roomID, "user-1", "hi")
	require.ErrorIs(t, err, enqueueErr)
	require.Nil(t, stored)
	require.Equal(t, 1, tx.calls)
	require.ErrorIs(t, tx.lastErr, enqueueErr, "transaction must observe the enqueue error")
}

func TestRoomMessageService_PostRequiresVerification(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mocks.NewMockRoomMessagesRepository(ctrl)
	access := mocks.NewMockRoomAccessRepository(ctrl)
	announcer := mocks.NewMockMessageAnnouncer(ctrl)
	outbox := mocks.NewMockOutboxEnqueuer(ctrl)
	svc := services.NewRoomMessageService(messages, access, outbox, &fakeTxManager{}, announcer, log.NewStdLogger(io.Discard))

	roomID := uuid.New()
	access.EXPECT().Exists(gomock.Any(), gomock.Any(), roomID, "user-1").Return(false, nil)

	_, err := svc.Post(context.Background(), roomID, "user-1", "spoiler")
	require.ErrorIs(t, err, services.ErrRoomFogged)
}

func TestRoomMessageService_AnnounceFailureStillSucceeds(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mocks.NewMockRoomMessagesRepository(ctrl)
	access := mocks.NewMockRoomAccessRepository(ctrl)
	announcer := mocks.NewMockMessageAnnouncer(ctrl)
	outbox := mocks.NewMockOutboxEnqueuer(ctrl)
	svc := services.NewRoomMessageService(messages, access, outbox, &fakeTxManager{}, announcer, log.NewStdLogger(io.Discard))

	roomID := uuid.New()
	access.EXPECT().Exists(gomock.Any(), gomock.Any(), roomID, "user-1").Return(true, nil)
	messages.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ interface{}, msg po.RoomMessage) (*po.RoomMessage, error) {
			return &msg, nil
		})
	outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	announcer.EXPECT().Announce(gomock.Any(), gomock.Any()).Return(errors.New("hub closed"))

	stored, err := svc.Post(context.Background(), roomID, "user-1", "hi")
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestRoomMessageService_PostValidation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := services.NewRoomMessageService(
		mocks.NewMockRoomMessagesRepository(ctrl),
		mocks.NewMockRoomAccessRepository(ctrl),
		mocks.NewMockOutboxEnqueuer(ctrl),
		&fakeTxManager{},
		nil,
		log.NewStdLogger(io.Discard),
	)
	ctx := context.Background()
	roomID := uuid.New()

	cases := []struct {
		name   string
		roomID uuid.UUID
		userID string
		body   string
	}{
		{name: "nil room", roomID: uuid.Nil, userID: "user-1", body: "x"},
		{name: "blank user", roomID: roomID, userID: " ", body: "x"},
		{name: "blank body", roomID: roomID, userID: "user-1", body: " \t "},
		{name: "too long", roomID: roomID, userID: "user-1", body: strings.Repeat("字", services.MaxMessageRunes+1)},
	}
	for _, tc := range cases {
		_, err := svc.Post(ctx, tc.roomID, tc.userID, tc.body)
		require.ErrorIsf(t, err, services.ErrInvalidArgument, tc.name)
	}
}

func TestRoomMessageService_PostOrphanRoom(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mocks.NewMockRoomMessagesRepository(ctrl)
	access := mocks.NewMockRoomAccessRepository(ctrl)
	svc := services.NewRoomMessageService(messages, access, mocks.NewMockOutboxEnqueuer(ctrl), &fakeTxManager{}, nil, log.NewStdLogger(io.Discard))

	roomID := uuid.New()
	access.EXPECT().Exists(gomock.Any(), gomock.Any(), roomID, "user-1").Return(true, nil)
	messages.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, repositories.ErrEpisodeRoomNotFound)

	_, err := svc.Post(context.Background(), roomID, "user-1", strings.Repeat("字", services.MaxMessageRunes))
	require.ErrorIs(t, err, services.ErrRoomNotFound)
}

func TestRoomMessageService_ListRecent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mocks.NewMockRoomMessagesRepository(ctrl)
	svc := services.NewRoomMessageService(messages, mocks.NewMockRoomAccessRepository(ctrl), nil, &fakeTxManager{}, nil, log.NewStdLogger(io.Discard))

	roomID := uuid.New()
	now := time.Now().UTC()
	messages.EXPECT().ListRecent(gomock.Any(), gomock.Any(), roomID, 50).
		Return(historyOf(roomMessage(roomID, "a", now), roomMessage(roomID, "b", now.Add(time.Second))), nil)

	items, err := svc.ListRecent(context.Background(), roomID, 50)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, bodies(items))
}

func TestEpisodeRoomService_Register(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rooms := mocks.NewMockRoomsRepository(ctrl)
	svc := services.NewEpisodeRoomService(rooms, log.NewStdLogger(io.Discard))
	ctx := context.Background()
	airing := time.Date(2025, 10, 5, 15, 0, 0, 0, time.FixedZone("JST", 9*3600))

	rooms.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.AssignableToTypeOf(repositories.UpsertRoomInput{})).
		DoAndReturn(func(_ context.Context, _ interface{}, input repositories.UpsertRoomInput) (*po.EpisodeRoom, error) {
			require.Equal(t, "T", input.TitleID)
			require.Equal(t, time.UTC, input.AiringAt.Location())
			return &po.EpisodeRoom{RoomID: input.RoomID, TitleID: input.TitleID, EpisodeNumber: input.EpisodeNumber, AiringAt: input.AiringAt}, nil
		})
	room, err := svc.Register(ctx, services.RegisterRoomInput{TitleID: " T ", EpisodeNumber: 3, AiringAt: airing})
	require.NoError(t, err)
	require.EqualValues(t, 3, room.EpisodeNumber)
	require.True(t, airing.Equal(room.AiringAt))

	_, err = svc.Register(ctx, services.RegisterRoomInput{TitleID: "T", EpisodeNumber: 0, AiringAt: airing})
	require.ErrorIs(t, err, services.ErrInvalidArgument)
	_, err = svc.Register(ctx, services.RegisterRoomInput{TitleID: "T", EpisodeNumber: 1})
	require.ErrorIs(t, err, services.ErrInvalidArgument)

	missing := uuid.New()
	rooms.EXPECT().Get(gomock.Any(), gomock.Any(), missing).Return(nil, repositories.ErrEpisodeRoomNotFound)
	_, err = svc.Get(ctx, missing)
	require.ErrorIs(t, err, services.ErrRoomNotFound)
}

func TestRoomAttestationService_Verify(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	access := mocks.NewMockRoomAccessRepository(ctrl)
	rooms := mocks.NewMockRoomsRepository(ctrl)
	svc := services.NewRoomAttestationService(access, rooms, &fakeTxManager{}, log.NewStdLogger(io.Discard))
	ctx := context.Background()
	roomID := uuid.New()

	rooms.EXPECT().Get(gomock.Any(), gomock.Any(), roomID).Return(&po.EpisodeRoom{RoomID: roomID}, nil).Times(2)
	access.EXPECT().Insert(gomock.Any(), gomock.Any(), roomID, "user-1", gomock.Any()).Return(true, nil)
	access.EXPECT().Insert(gomock.Any(), gomock.Any(), roomID, "user-1", gomock.Any()).Return(false, nil)
	require.NoError(t, svc.Verify(ctx, roomID, "user-1"))
	require.NoError(t, svc.Verify(ctx, roomID, "user-1"))

	missing := uuid.New()
	rooms.EXPECT().Get(gomock.Any(), gomock.Any(), missing).Return(nil, repositories.ErrEpisodeRoomNotFound)
	require.ErrorIs(t, svc.Verify(ctx, missing, "user-1"), services.ErrRoomNotFound)

	require.ErrorIs(t, svc.Verify(ctx, uuid.Nil, "user-1"), services.ErrInvalidArgument)

	access.EXPECT().Exists(gomock.Any(), gomock.Any(), roomID, "user-1").Return(true, nil)
	ok, err := svc.HasAccess(ctx, roomID, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
}
