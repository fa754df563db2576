package controllers_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bionicotaku/anima-library/internal/controllers"
	"github.com/bionicotaku/anima-library/internal/metadata"
	"github.com/bionicotaku/anima-library/internal/models/po"
	"github.com/bionicotaku/anima-library/internal/services"
	"github.com/bionicotaku/anima-library/internal/services/mocks"
	"github.com/bionicotaku/anima-library/internal/tasks/roomfeed"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

type fakeTxManager struct{}

type fakeSession struct{ ctx context.Context }

func (fakeTxManager) WithinTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, fakeSession{ctx: ctx})
}

func (fakeTxManager) WithinReadOnlyTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, fakeSession{ctx: ctx})
}

func (fakeSession) Tx() pgx.Tx { return nil }

func (s fakeSession) Context() context.Context { return s.ctx }

// memDirectory 是按用户隔离的内存片单目录；未收录过作品的用户视为未开通。
type memDirectory struct {
	mu      sync.Mutex
	byUser  map[string][]po.WatchEntry
	listErr error
}

func newMemDirectory() *memDirectory {
	return &memDirectory{byUser: map[string][]po.WatchEntry{}}
}

func (d *memDirectory) List(_ context.Context, userID string) ([]po.WatchEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listErr != nil {
		return nil, d.listErr
	}
	entries, ok := d.byUser[userID]
	if !ok {
		return nil, services.ErrPermissionDenied
	}
	return slices.Clone(entries), nil
}

func (d *memDirectory) Add(_ context.Context, userID string, title po.TitleRef, status po.WatchStatus) (po.WatchEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	titleID := strings.TrimSpace(title.TitleID)
	if titleID == "" {
		return po.WatchEntry{}, services.ErrInvalidArgument
	}
	for _, entry := range d.byUser[userID] {
		if entry.TitleID == titleID {
			return po.WatchEntry{}, services.ErrEntryExists
		}
	}
	now := time.Now().UTC()
	entry := po.WatchEntry{
		UserID:        userID,
		TitleID:       titleID,
		TitleName:     title.TitleName,
		Status:        status,
		TotalEpisodes: title.TotalEpisodes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	d.byUser[userID] = append([]po.WatchEntry{entry}, d.byUser[userID]...)
	return entry.Clone(), nil
}

func (d *memDirectory) mutate(userID, titleID string, fn func(*po.WatchEntry)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	entries := d.byUser[userID]
	for i := range entries {
		if entries[i].TitleID == titleID {
			fn(&entries[i])
			entries[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return services.ErrEntryNotFound
}

func (d *memDirectory) SetStatus(_ context.Context, userID, titleID string, status po.WatchStatus) error {
	return d.mutate(userID, titleID, func(e *po.WatchEntry) {
		*e = services.DeriveTransition(*e, services.StatusChange(status), time.Now().UTC()).Apply(*e)
	})
}

func (d *memDirectory) SetProgress(_ context.Context, userID, titleID string, progress int32) error {
	return d.mutate(userID, titleID, func(e *po.WatchEntry) {
		*e = services.DeriveTransition(*e, services.ProgressChange(progress), time.Now().UTC()).Apply(*e)
		e.Progress = progress
	})
}

func (d *memDirectory) SetScore(_ context.Context, userID, titleID string, score *float64) error {
	return d.mutate(userID, titleID, func(e *po.WatchEntry) { e.Score = score })
}

func (d *memDirectory) SetNotes(_ context.Context, userID, titleID string, notes *string) error {
	return d.mutate(userID, titleID, func(e *po.WatchEntry) { e.Notes = notes })
}

func (d *memDirectory) Remove(_ context.Context, userID, titleID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	entries := d.byUser[userID]
	for i := range entries {
		if entries[i].TitleID == titleID {
			d.byUser[userID] = slices.Delete(entries, i, i+1)
			return nil
		}
	}
	return services.ErrEntryNotFound
}

func (d *memDirectory) Stats(_ context.Context, userID string) (po.LibraryStats, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	entries, ok := d.byUser[userID]
	if !ok {
		return po.LibraryStats{}, services.ErrPermissionDenied
	}
	return po.ComputeLibraryStats(entries), nil
}

func (d *memDirectory) CanPost(_ context.Context, userID, titleID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, entry := range d.byUser[userID] {
		if entry.TitleID == titleID {
			return true, nil
		}
	}
	return false, nil
}

type serverFixture struct {
	srv         *khttp.Server
	registry    *services.SessionRegistry
	hub         *roomfeed.Hub
	directory   *memDirectory
	clock       *mocks.MockAiringClock
	attestation *mocks.MockAttestationService
	rooms       *mocks.MockRoomsRepository
	access      *mocks.MockRoomAccessRepository
	messages    *mocks.MockRoomMessagesRepository
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	logger := log.NewStdLogger(io.Discard)
	f := &serverFixture{
		hub:         roomfeed.NewHub(logger),
		directory:   newMemDirectory(),
		clock:       mocks.NewMockAiringClock(ctrl),
		attestation: mocks.NewMockAttestationService(ctrl),
		rooms:       mocks.NewMockRoomsRepository(ctrl),
		access:      mocks.NewMockRoomAccessRepository(ctrl),
		messages:    mocks.NewMockRoomMessagesRepository(ctrl),
	}

	roomService := services.NewEpisodeRoomService(f.rooms, logger)
	f.registry = services.NewSessionRegistry(
		services.SessionConfig{},
		f.directory,
		f.directory,
		f.clock,
		f.attestation,
		roomService,
		services.NewRoomMessageService(f.messages, f.access, nil, fakeTxManager{}, roomfeed.NewAnnouncer(f.hub, logger), logger),
		f.hub,
		f.messages,
		logger,
	)
	t.Cleanup(f.registry.Close)

	base := controllers.NewBaseHandler(controllers.HandlerTimeouts{})
	routes := controllers.NewRoutes(
		controllers.NewLibraryHandler(f.registry, base),
		controllers.NewRoomHandler(f.registry, roomService, base),
		controllers.NewSessionHandler(f.registry, base),
	)
	f.srv = khttp.NewServer()
	routes.Register(f.srv)
	return f
}

type response struct {
	Status int
	Body   map[string]any
}

func (r response) reason() string {
	reason, _ := r.Body["reason"].(string)
	return reason
}

func (r response) object(key string) map[string]any {
	value, _ := r.Body[key].(map[string]any)
	return value
}

func (r response) list(key string) []any {
	value, _ := r.Body[key].([]any)
	return value
}

func userInfoHeader(t *testing.T, userID string) string {
	t.Helper()
	payload, err := json.Marshal(map[string]any{"sub": userID, "email": userID + "@example.com"})
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(payload)
}

// call 以给定用户身份发起请求；userID 为空时不携带 userinfo 头。
func (f *serverFixture) call(t *testing.T, userID, method, target string, body any) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if userID != "" {
		req.Header.Set(metadata.HeaderUserInfo, userInfoHeader(t, userID))
	}
	return f.do(t, req)
}

func (f *serverFixture) do(t *testing.T, req *http.Request) response {
	t.Helper()
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)

	out := response{Status: rec.Code, Body: map[string]any{}}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out.Body), "body: %s", rec.Body.String())
	}
	return out
}
