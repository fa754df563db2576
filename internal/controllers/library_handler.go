package controllers

import (
	"context"
	"strings"

	"github.com/bionicotaku/anima-library/internal/controllers/dto"
	"github.com/bionicotaku/anima-library/internal/models/po"
	"github.com/bionicotaku/anima-library/internal/services"

	kerrors "github.com/go-kratos/kratos/v2/errors"
)

// LibraryHandler 暴露会话内片单缓存的读写接口。
type LibraryHandler struct {
	*BaseHandler
	sessions *services.SessionRegistry
}

// NewLibraryHandler 构造 LibraryHandler。
func NewLibraryHandler(sessions *services.SessionRegistry, base *BaseHandler) *LibraryHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &LibraryHandler{BaseHandler: base, sessions: sessions}
}

// ListLibrary 返回当前筛选视图；会话首次使用时载入片单。
func (h *LibraryHandler) ListLibrary(ctx context.Context, req *dto.ListLibraryRequest) (*dto.LibraryResponse, error) {
	scope, err := h.open(ctx, req.UserID, HandlerTypeQuery)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()
	return libraryView(scope.session.Library()), nil
}

// RefreshLibrary 并发重新拉取条目与远端统计。
func (h *LibraryHandler) RefreshLibrary(ctx context.Context, req *dto.ListLibraryRequest) (*dto.LibraryResponse, error) {
	scope, err := openSession(ctx, h.BaseHandler, h.sessions, req.UserID, HandlerTypeQuery)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()

	if err := scope.session.Library().Refresh(scope.ctx); err != nil {
		return nil, mapServiceError(err)
	}
	return libraryView(scope.session.Library()), nil
}

// GetStats 返回远端统计。
func (h *LibraryHandler) GetStats(ctx context.Context, req *dto.ListLibraryRequest) (*dto.StatsResponse, error) {
	scope, err := openSession(ctx, h.BaseHandler, h.sessions, req.UserID, HandlerTypeQuery)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()

	stats, err := scope.session.Library().FetchStats(scope.ctx)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &dto.StatsResponse{Stats: dto.ToStats(stats)}, nil
}

// SetFilter 切换状态筛选并返回新视图。
func (h *LibraryHandler) SetFilter(ctx context.Context, req *dto.SetFilterRequest) (*dto.LibraryResponse, error) {
	scope, err := h.open(ctx, req.UserID, HandlerTypeCommand)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()

	if err := scope.session.Library().SetFilter(req.Filter); err != nil {
		return nil, mapServiceError(err)
	}
	return libraryView(scope.session.Library()), nil
}

// AddEntry 收录作品，状态缺省为 planning。
func (h *LibraryHandler) AddEntry(ctx context.Context, req *dto.AddEntryRequest) (*dto.EntryResponse, error) {
	var status po.WatchStatus
	if strings.TrimSpace(req.Status) != "" {
		parsed, ok := po.ParseWatchStatus(req.Status)
		if !ok {
			return nil, invalidArgument("invalid status %q", req.Status)
		}
		status = parsed
	}

	scope, err := h.open(ctx, req.UserID, HandlerTypeCommand)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()

	created, err := scope.session.Library().Add(scope.ctx, po.TitleRef{
		TitleID:       req.TitleID,
		TitleName:     req.TitleName,
		TotalEpisodes: req.TotalEpisodes,
	}, status)
	if err != nil {
		return nil, mapServiceError(err)
	}
	entry := dto.ToEntry(created)
	return &dto.EntryResponse{Entry: &entry}, nil
}

// GetEntry 从缓存读取单个条目。
func (h *LibraryHandler) GetEntry(ctx context.Context, req *dto.EntryRequest) (*dto.EntryResponse, error) {
	scope, err := h.open(ctx, req.UserID, HandlerTypeQuery)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()

	entry, ok := scope.session.Library().Lookup(req.TitleID)
	if !ok {
		return nil, kerrors.NotFound(ReasonEntryNotFound, "entry not in library: "+req.TitleID)
	}
	out := dto.ToEntry(entry)
	return &dto.EntryResponse{Entry: &out}, nil
}

// UpdateStatus 修改观看状态。
func (h *LibraryHandler) UpdateStatus(ctx context.Context, req *dto.UpdateStatusRequest) (*dto.EntryResponse, error) {
	status, ok := po.ParseWatchStatus(req.Status)
	if !ok {
		return nil, invalidArgument("invalid status %q", req.Status)
	}
	return h.mutate(ctx, req.UserID, req.TitleID, func(ctx context.Context, lib *services.LibraryCache) error {
		return lib.UpdateStatus(ctx, req.TitleID, status)
	})
}

// UpdateProgress 修改观看进度。
func (h *LibraryHandler) UpdateProgress(ctx context.Context, req *dto.UpdateProgressRequest) (*dto.EntryResponse, error) {
	if req.Progress == nil {
		return nil, invalidArgument("progress required")
	}
	progress := *req.Progress
	return h.mutate(ctx, req.UserID, req.TitleID, func(ctx context.Context, lib *services.LibraryCache) error {
		return lib.UpdateProgress(ctx, req.TitleID, progress)
	})
}

// UpdateScore 修改或清除评分。
func (h *LibraryHandler) UpdateScore(ctx context.Context, req *dto.UpdateScoreRequest) (*dto.EntryResponse, error) {
	return h.mutate(ctx, req.UserID, req.TitleID, func(ctx context.Context, lib *services.LibraryCache) error {
		return lib.UpdateScore(ctx, req.TitleID, req.Score)
	})
}

// UpdateNotes 修改或清除备注。
func (h *LibraryHandler) UpdateNotes(ctx context.Context, req *dto.UpdateNotesRequest) (*dto.EntryResponse, error) {
	return h.mutate(ctx, req.UserID, req.TitleID, func(ctx context.Context, lib *services.LibraryCache) error {
		return lib.UpdateNotes(ctx, req.TitleID, req.Notes)
	})
}

// RemoveEntry 删除条目。
func (h *LibraryHandler) RemoveEntry(ctx context.Context, req *dto.EntryRequest) (*dto.RemoveEntryResponse, error) {
	scope, err := h.open(ctx, req.UserID, HandlerTypeCommand)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()

	if err := scope.session.Library().Remove(scope.ctx, req.TitleID); err != nil {
		return nil, mapServiceError(err)
	}
	return &dto.RemoveEntryResponse{TitleID: req.TitleID, Removed: true}, nil
}

// CanPost 返回用户能否在该作品的房间发言。
func (h *LibraryHandler) CanPost(ctx context.Context, req *dto.EntryRequest) (*dto.CanPostResponse, error) {
	scope, err := h.open(ctx, req.UserID, HandlerTypeQuery)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()

	allowed, err := scope.session.Library().CheckCanPost(scope.ctx, req.TitleID)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &dto.CanPostResponse{TitleID: req.TitleID, CanPost: allowed}, nil
}

// open 取得会话并确保片单已载入。
func (h *LibraryHandler) open(ctx context.Context, requestUserID string, kind HandlerType) (*sessionScope, error) {
	scope, err := openSession(ctx, h.BaseHandler, h.sessions, requestUserID, kind)
	if err != nil {
		return nil, err
	}
	if err := scope.session.EnsureLoaded(scope.ctx); err != nil {
		scope.cancel()
		return nil, mapServiceError(err)
	}
	return scope, nil
}

func (h *LibraryHandler) mutate(ctx context.Context, requestUserID, titleID string, fn func(context.Context, *services.LibraryCache) error) (*dto.EntryResponse, error) {
	scope, err := h.open(ctx, requestUserID, HandlerTypeCommand)
	if err != nil {
		return nil, err
	}
	defer scope.cancel()

	lib := scope.session.Library()
	if err := fn(scope.ctx, lib); err != nil {
		return nil, mapServiceError(err)
	}
	resp := &dto.EntryResponse{}
	if entry, ok := lib.Lookup(titleID); ok {
		out := dto.ToEntry(entry)
		resp.Entry = &out
	}
	return resp, nil
}

func libraryView(lib *services.LibraryCache) *dto.LibraryResponse {
	stats := lib.Stats()
	resp := &dto.LibraryResponse{
		UserID:  lib.UserID(),
		Filter:  lib.Filter(),
		Entries: dto.ToEntries(lib.Filtered()),
		Total:   int(stats.Total),
		Stats:   dto.ToStats(stats),
	}
	if err := lib.LastError(); err != nil {
		resp.LastError = err.Error()
	}
	return resp
}
