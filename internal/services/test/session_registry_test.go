package services_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-utils/txmanager"

	"github.com/bionicotaku/anima-library/internal/models/po"
	"github.com/bionicotaku/anima-library/internal/services"
	"github.com/bionicotaku/anima-library/internal/services/mocks"
	"github.com/bionicotaku/anima-library/internal/tasks/roomfeed"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type registryFixture struct {
	registry    *services.SessionRegistry
	hub         *roomfeed.Hub
	directory   *fakeDirectory
	clock       *mocks.MockAiringClock
	attestation *mocks.MockAttestationService
	rooms       *mocks.MockRoomsRepository
	access      *mocks.MockRoomAccessRepository
	messages    *mocks.MockRoomMessagesRepository
	room        po.EpisodeRoom
}

func newRegistryFixture(t *testing.T, cfg services.SessionConfig) *registryFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	logger := log.NewStdLogger(io.Discard)
	f := &registryFixture{
		hub:         roomfeed.NewHub(logger),
		directory:   newFakeDirectory(newStepClock(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)).Now),
		clock:       mocks.NewMockAiringClock(ctrl),
		attestation: mocks.NewMockAttestationService(ctrl),
		rooms:       mocks.NewMockRoomsRepository(ctrl),
		access:      mocks.NewMockRoomAccessRepository(ctrl),
		messages:    mocks.NewMockRoomMessagesRepository(ctrl),
		room: po.EpisodeRoom{
			RoomID:        uuid.New(),
			TitleID:       "T",
			EpisodeNumber: 1,
			AiringAt:      time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	room := f.room
	f.rooms.EXPECT().Get(gomock.Any(), gomock.Any(), f.room.RoomID).Return(&room, nil).AnyTimes()

	f.registry = services.NewSessionRegistry(
		cfg,
		f.directory,
		f.directory,
		f.clock,
		f.attestation,
		services.NewEpisodeRoomService(f.rooms, logger),
		services.NewRoomMessageService(f.messages, f.access, nil, &fakeTxManager{}, roomfeed.NewAnnouncer(f.hub, logger), logger),
		f.hub,
		f.messages,
		logger,
	)
	t.Cleanup(f.registry.Close)
	return f
}

func TestSessionRegistry_ReusesSessionPerUser(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t, services.SessionConfig{})

	first, err := f.registry.Session("user-1")
	require.NoError(t, err)
	again, err := f.registry.Session(" user-1 ")
	require.NoError(t, err)
	require.Same(t, first, again)

	other, err := f.registry.Session("user-2")
	require.NoError(t, err)
	require.NotSame(t, first, other)
	require.Equal(t, 2, f.registry.Len())

	_, err = f.registry.Session("  ")
	require.ErrorIs(t, err, services.ErrInvalidArgument)
}

func TestSessionRegistry_LogoutClosesSession(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t, services.SessionConfig{})
	ctx := context.Background()

	sess, err := f.registry.Session("user-1")
	require.NoError(t, err)

	f.clock.EXPECT().IsAired(gomock.Any(), f.room.RoomID).Return(true, nil)
	f.attestation.EXPECT().HasAccess(gomock.Any(), f.room.RoomID, "user-1").Return(true, nil)
	f.messages.EXPECT().ListRecent(gomock.Any(), gomock.Any(), f.room.RoomID, gomock.Any()).Return(nil, nil)

	view, err := sess.EnterRoom(ctx, f.room.RoomID)
	require.NoError(t, err)
	require.Equal(t, po.GateUnlocked, view.State())
	require.Equal(t, 1, f.hub.Listeners(f.room.RoomID))

	require.True(t, f.registry.Logout("user-1"))
	require.True(t, sess.Closed())
	require.Zero(t, f.hub.Listeners(f.room.RoomID))
	require.False(t, f.registry.Logout("user-1"))

	_, err = sess.Room(f.room.RoomID)
	require.ErrorIs(t, err, services.ErrSessionClosed)
	_, err = sess.EnterRoom(ctx, f.room.RoomID)
	require.ErrorIs(t, err, services.ErrSessionClosed)

	fresh, err := f.registry.Session("user-1")
	require.NoError(t, err)
	require.NotSame(t, sess, fresh)
	require.False(t, fresh.Closed())
}

func TestSessionRegistry_IdleSessionsExpire(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t, services.SessionConfig{IdleTTL: 50 * time.Millisecond, CleanupInterval: 10 * time.Millisecond})

	sess, err := f.registry.Session("user-1")
	require.NoError(t, err)

	require.Eventually(t, sess.Closed, 2*time.Second, 10*time.Millisecond)
	require.Zero(t, f.registry.Len())

	fresh, err := f.registry.Session("user-1")
	require.NoError(t, err)
	require.NotSame(t, sess, fresh)
}

func TestSession_RoomLifecycle(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t, services.SessionConfig{})
	ctx := context.Background()
	roomID := f.room.RoomID

	sess, err := f.registry.Session("user-1")
	require.NoError(t, err)
	require.NoError(t, sess.EnsureLoaded(ctx))
	require.True(t, sess.Library().Loaded())

	// 已播出但未确认：FOG，不可读写。
	f.clock.EXPECT().IsAired(gomock.Any(), roomID).Return(true, nil)
	f.attestation.EXPECT().HasAccess(gomock.Any(), roomID, "user-1").Return(false, nil)
	view, err := sess.EnterRoom(ctx, roomID)
	require.NoError(t, err)
	require.Equal(t, po.GateFog, view.State())
	require.Equal(t, "T", view.Room().TitleID)

	_, err = sess.Messages(roomID)
	require.ErrorIs(t, err, services.ErrRoomFogged)
	_, err = sess.PostMessage(ctx, roomID, "hello")
	require.ErrorIs(t, err, services.ErrRoomFogged)

	// 确认后解锁并载入历史。
	history := roomMessage(roomID, "earlier", time.Now().UTC().Add(-time.Hour))
	f.attestation.EXPECT().Verify(gomock.Any(), roomID, "user-1").Return(nil)
	f.messages.EXPECT().ListRecent(gomock.Any(), gomock.Any(), roomID, gomock.Any()).Return(historyOf(history), nil)

	view, err = sess.VerifyRoom(ctx, roomID)
	require.NoError(t, err)
	require.Equal(t, po.GateUnlocked, view.State())
	require.True(t, view.Subscribed())

	msgs, err := sess.Messages(roomID)
	require.NoError(t, err)
	require.Equal(t, []string{"earlier"}, bodies(msgs))

	// 未收录作品不能发言。
	_, err = sess.PostMessage(ctx, roomID, "hello")
	require.ErrorIs(t, err, services.ErrPostNotAllowed)

	_, err = sess.Library().Add(ctx, po.TitleRef{TitleID: "T"}, po.WatchStatusWatching)
	require.NoError(t, err)

	f.access.EXPECT().Exists(gomock.Any(), gomock.Any(), roomID, "user-1").Return(true, nil)
	f.messages.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ interface{}, msg po.RoomMessage) (*po.RoomMessage, error) {
			return &msg, nil
		})

	posted, err := sess.PostMessage(ctx, roomID, "hello")
	require.NoError(t, err)
	require.Equal(t, "user-1", posted.UserID)

	msgs, err = sess.Messages(roomID)
	require.NoError(t, err)
	require.Equal(t, []string{"earlier", "hello"}, bodies(msgs))

	// 再次进入复用视图，不重新订阅。
	again, err := sess.EnterRoom(ctx, roomID)
	require.NoError(t, err)
	require.Same(t, view, again)
	require.Equal(t, 1, f.hub.Listeners(roomID))

	require.NoError(t, sess.LeaveRoom(roomID))
	require.Zero(t, f.hub.Listeners(roomID))
	require.ErrorIs(t, sess.LeaveRoom(roomID), services.ErrRoomNotOpen)
	_, err = sess.Messages(roomID)
	require.ErrorIs(t, err, services.ErrRoomNotOpen)
}

func TestSession_LockedRoom(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t, services.SessionConfig{})
	ctx := context.Background()
	roomID := f.room.RoomID

	sess, err := f.registry.Session("user-1")
	require.NoError(t, err)

	f.clock.EXPECT().IsAired(gomock.Any(), roomID).Return(false, nil).Times(2)
	view, err := sess.EnterRoom(ctx, roomID)
	require.NoError(t, err)
	require.Equal(t, po.GateLocked, view.State())

	_, err = sess.Messages(roomID)
	require.ErrorIs(t, err, services.ErrRoomNotAired)

	_, err = sess.VerifyRoom(ctx, roomID)
	require.ErrorIs(t, err, services.ErrRoomNotAired)
	require.Zero(t, f.hub.Listeners(roomID))

	_, err = sess.VerifyRoom(ctx, uuid.New())
	require.ErrorIs(t, err, services.ErrRoomNotOpen)
}

func TestSession_EnterUnknownRoom(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t, services.SessionConfig{})
	missing := uuid.New()
	f.rooms.EXPECT().Get(gomock.Any(), gomock.Any(), missing).Return(nil, errRoomLookup)

	sess, err := f.registry.Session("user-1")
	require.NoError(t, err)
	_, err = sess.EnterRoom(context.Background(), missing)
	require.ErrorIs(t, err, errRoomLookup)
	_, err = sess.Room(missing)
	require.ErrorIs(t, err, services.ErrRoomNotOpen)
}

func TestSession_LeaveRoomDuringEnterDoesNotLeakListener(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t, services.SessionConfig{})
	ctx := context.Background()

	sess, err := f.registry.Session("user-1")
	require.NoError(t, err)

	checking := make(chan struct{})
	release := make(chan struct{})
	f.clock.EXPECT().IsAired(gomock.Any(), f.room.RoomID).Return(true, nil)
	f.attestation.EXPECT().HasAccess(gomock.Any(), f.room.RoomID, "user-1").
		DoAndReturn(func(context.Context, uuid.UUID, string) (bool, error) {
			close(checking)
			<-release
			return true, nil
		})

	errCh := make(chan error, 1)
	go func() {
		_, err := sess.EnterRoom(ctx, f.room.RoomID)
		errCh <- err
	}()

	<-checking
	require.NoError(t, sess.LeaveRoom(f.room.RoomID))
	close(release)

	require.ErrorIs(t, <-errCh, services.ErrRoomNotOpen)
	require.Zero(t, f.hub.Listeners(f.room.RoomID))
	_, err = sess.Room(f.room.RoomID)
	require.ErrorIs(t, err, services.ErrRoomNotOpen)
}

func TestSession_CloseWhileSubscribingReleasesListener(t *testing.T) {
	t.Parallel()

	f := newRegistryFixture(t, services.SessionConfig{})
	ctx := context.Background()

	sess, err := f.registry.Session("user-1")
	require.NoError(t, err)

	loading := make(chan struct{})
	release := make(chan struct{})
	f.clock.EXPECT().IsAired(gomock.Any(), f.room.RoomID).Return(true, nil)
	f.attestation.EXPECT().HasAccess(gomock.Any(), f.room.RoomID, "user-1").Return(true, nil)
	// 订阅流在载入历史时阻塞，此时 hub 监听已注册。
	f.messages.EXPECT().ListRecent(gomock.Any(), gomock.Any(), f.room.RoomID, gomock.Any()).
		DoAndReturn(func(context.Context, txmanager.Session, uuid.UUID, int) ([]*po.RoomMessage, error) {
			close(loading)
			<-release
			return nil, nil
		})

	errCh := make(chan error, 1)
	go func() {
		_, err := sess.EnterRoom(ctx, f.room.RoomID)
		errCh <- err
	}()

	<-loading
	require.Equal(t, 1, f.hub.Listeners(f.room.RoomID))
	require.True(t, f.registry.Logout("user-1"))
	close(release)

	require.ErrorIs(t, <-errCh, services.ErrRoomNotOpen)
	require.True(t, sess.Closed())
	require.Zero(t, f.hub.Listeners(f.room.RoomID))
}
