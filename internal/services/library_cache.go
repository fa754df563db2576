package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bionicotaku/anima-library/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/errgroup"
)

// FilterAll 表示不过滤状态。
const FilterAll = "all"

// CacheOption 定制 LibraryCache。
type CacheOption func(*LibraryCache)

// WithClock 替换 LibraryCache 使用的时钟。
func WithClock(now func() time.Time) CacheOption {
	return func(c *LibraryCache) {
		if now != nil {
			c.now = now
		}
	}
}

// LibraryCache 持有单个用户会话内的片单副本。
//
// 所有写操作先调用远端目录，成功后才提交本地状态；index、filtered 与 stats
// 只由 rebuildLocked 从 entries 重新计算。锁不跨越远端调用，同一条目的并发写入
// 以后返回的响应为准。
type LibraryCache struct {
	userID      string
	directory   DirectoryService
	eligibility PostEligibilityChecker
	log         *log.Helper
	now         func() time.Time
	metrics     *libraryMetrics

	mu          sync.RWMutex
	entries     []po.WatchEntry
	index       map[string]int
	filter      po.WatchStatus
	filtered    []int
	stats       po.LibraryStats
	remoteStats po.LibraryStats
	lastError   error
	loaded      bool
}

// NewLibraryCache 构造空的 LibraryCache，需调用 FetchAll 载入数据。
func NewLibraryCache(
	userID string,
	directory DirectoryService,
	eligibility PostEligibilityChecker,
	logger log.Logger,
	opts ...CacheOption,
) *LibraryCache {
	c := &LibraryCache{
		userID:      userID,
		directory:   directory,
		eligibility: eligibility,
		log:         log.NewHelper(logger),
		now:         func() time.Time { return time.Now().UTC() },
		metrics:     newLibraryMetrics(),
		index:       map[string]int{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserID 返回缓存所属用户。
func (c *LibraryCache) UserID() string {
	return c.userID
}

// FetchAll 从目录拉取全部条目并替换本地副本。
// 权限拒绝视为空片单且不返回错误；其他错误保留现有条目并记录 lastError。
func (c *LibraryCache) FetchAll(ctx context.Context) error {
	items, err := c.directory.List(ctx, c.userID)
	c.metrics.recordMutation(ctx, "fetch_all", err)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case err == nil:
		c.entries = cloneEntries(items)
	case errors.Is(err, ErrPermissionDenied):
		c.entries = nil
	default:
		c.lastError = err
		c.log.WithContext(ctx).Errorf("fetch library failed: user=%s err=%v", c.userID, err)
		return fmt.Errorf("fetch library: %w", err)
	}
	c.lastError = nil
	c.loaded = true
	c.rebuildLocked()
	return nil
}

// FetchStats 拉取远端统计。权限拒绝时以零值替代；其他错误保留旧值并返回。
func (c *LibraryCache) FetchStats(ctx context.Context) (po.LibraryStats, error) {
	stats, err := c.directory.Stats(ctx, c.userID)
	if errors.Is(err, ErrPermissionDenied) {
		stats, err = po.LibraryStats{}, nil
	}
	if err != nil {
		c.log.WithContext(ctx).Warnf("fetch library stats failed: user=%s err=%v", c.userID, err)
		return c.RemoteStats(), fmt.Errorf("fetch library stats: %w", err)
	}

	c.mu.Lock()
	c.remoteStats = stats
	c.mu.Unlock()
	return copyStats(stats), nil
}

// Refresh 并发执行 FetchAll 与 FetchStats，返回先出现的错误。
func (c *LibraryCache) Refresh(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		return c.FetchAll(ctx)
	})
	g.Go(func() error {
		_, err := c.FetchStats(ctx)
		return err
	})
	return g.Wait()
}

// SetFilter 切换状态筛选，"all" 或空串表示全部。
func (c *LibraryCache) SetFilter(filter string) error {
	var status po.WatchStatus
	if raw := strings.TrimSpace(filter); raw != "" && !strings.EqualFold(raw, FilterAll) {
		parsed, ok := po.ParseWatchStatus(raw)
		if !ok {
			return fmt.Errorf("%w: filter %q", ErrInvalidStatus, filter)
		}
		status = parsed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = status
	c.rebuildLocked()
	return nil
}

// Add 收录作品；成功后新条目置于最前。
func (c *LibraryCache) Add(ctx context.Context, title po.TitleRef, status po.WatchStatus) (po.WatchEntry, error) {
	if status == "" {
		status = po.WatchStatusPlanning
	}
	created, err := c.directory.Add(ctx, c.userID, title, status)
	c.metrics.recordMutation(ctx, "add", err)
	if err != nil {
		return po.WatchEntry{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if idx, ok := c.index[created.TitleID]; ok {
		c.entries = slices.Delete(c.entries, idx, idx+1)
	}
	c.entries = slices.Insert(c.entries, 0, created.Clone())
	c.rebuildLocked()
	return created.Clone(), nil
}

// UpdateStatus 修改状态。
func (c *LibraryCache) UpdateStatus(ctx context.Context, titleID string, status po.WatchStatus) error {
	err := c.directory.SetStatus(ctx, c.userID, titleID, status)
	c.metrics.recordMutation(ctx, "update_status", err)
	if err != nil {
		return err
	}
	c.commit(ctx, titleID, func(entry po.WatchEntry, now time.Time) po.WatchEntry {
		return DeriveTransition(entry, StatusChange(status), now).Apply(entry)
	})
	return nil
}

// UpdateProgress 修改进度，状态按 DeriveTransition 推导。
func (c *LibraryCache) UpdateProgress(ctx context.Context, titleID string, progress int32) error {
	err := c.directory.SetProgress(ctx, c.userID, titleID, progress)
	c.metrics.recordMutation(ctx, "update_progress", err)
	if err != nil {
		return err
	}
	c.commit(ctx, titleID, func(entry po.WatchEntry, now time.Time) po.WatchEntry {
		next := DeriveTransition(entry, ProgressChange(progress), now).Apply(entry)
		next.Progress = progress
		return next
	})
	return nil
}

// UpdateScore 修改评分，nil 表示清除。
func (c *LibraryCache) UpdateScore(ctx context.Context, titleID string, score *float64) error {
	err := c.directory.SetScore(ctx, c.userID, titleID, score)
	c.metrics.recordMutation(ctx, "update_score", err)
	if err != nil {
		return err
	}
	var value *float64
	if score != nil {
		v := *score
		value = &v
	}
	c.commit(ctx, titleID, func(entry po.WatchEntry, _ time.Time) po.WatchEntry {
		entry.Score = value
		return entry
	})
	return nil
}

// UpdateNotes 修改备注，nil 表示清除。
func (c *LibraryCache) UpdateNotes(ctx context.Context, titleID string, notes *string) error {
	err := c.directory.SetNotes(ctx, c.userID, titleID, notes)
	c.metrics.recordMutation(ctx, "update_notes", err)
	if err != nil {
		return err
	}
	var value *string
	if notes != nil {
		v := *notes
		value = &v
	}
	c.commit(ctx, titleID, func(entry po.WatchEntry, _ time.Time) po.WatchEntry {
		entry.Notes = value
		return entry
	})
	return nil
}

// Remove 删除条目。
func (c *LibraryCache) Remove(ctx context.Context, titleID string) error {
	err := c.directory.Remove(ctx, c.userID, titleID)
	c.metrics.recordMutation(ctx, "remove", err)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := c.index[titleID]
	if !ok {
		return nil
	}
	c.entries = slices.Delete(c.entries, idx, idx+1)
	c.rebuildLocked()
	return nil
}

// Lookup 按 titleID 读取条目副本。
func (c *LibraryCache) Lookup(titleID string) (po.WatchEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx, ok := c.index[titleID]
	if !ok {
		return po.WatchEntry{}, false
	}
	return c.entries[idx].Clone(), true
}

// Contains 判断片单是否收录该作品。
func (c *LibraryCache) Contains(titleID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[titleID]
	return ok
}

// CheckCanPost 透传发言资格检查。
func (c *LibraryCache) CheckCanPost(ctx context.Context, titleID string) (bool, error) {
	if c.eligibility == nil {
		return c.Contains(titleID), nil
	}
	return c.eligibility.CanPost(ctx, c.userID, titleID)
}

// Entries 返回全部条目（最新加入在前）。
func (c *LibraryCache) Entries() []po.WatchEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneEntries(c.entries)
}

// Filtered 返回当前筛选视图。
func (c *LibraryCache) Filtered() []po.WatchEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]po.WatchEntry, 0, len(c.filtered))
	for _, idx := range c.filtered {
		out = append(out, c.entries[idx].Clone())
	}
	return out
}

// Filter 返回当前筛选值，全部时为 "all"。
func (c *LibraryCache) Filter() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.filter == "" {
		return FilterAll
	}
	return string(c.filter)
}

// Stats 返回由本地条目计算的统计。
func (c *LibraryCache) Stats() po.LibraryStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyStats(c.stats)
}

// RemoteStats 返回最近一次 FetchStats 的结果。
func (c *LibraryCache) RemoteStats() po.LibraryStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyStats(c.remoteStats)
}

// LastError 返回最近一次 FetchAll 的失败原因。
func (c *LibraryCache) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// Loaded 表示 FetchAll 是否成功执行过。
func (c *LibraryCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *LibraryCache) commit(ctx context.Context, titleID string, mutate func(po.WatchEntry, time.Time) po.WatchEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := c.index[titleID]
	if !ok {
		c.log.WithContext(ctx).Debugf("library cache commit skipped: user=%s title=%s not indexed", c.userID, titleID)
		return
	}
	now := c.now()
	next := mutate(c.entries[idx].Clone(), now)
	next.UpdatedAt = now
	c.entries[idx] = next
	c.rebuildLocked()
}

func (c *LibraryCache) rebuildLocked() {
	index := make(map[string]int, len(c.entries))
	filtered := make([]int, 0, len(c.entries))
	for i, entry := range c.entries {
		index[entry.TitleID] = i
		if c.filter == "" || entry.Status == c.filter {
			filtered = append(filtered, i)
		}
	}
	c.index = index
	c.filtered = filtered
	c.stats = po.ComputeLibraryStats(c.entries)
}

func cloneEntries(items []po.WatchEntry) []po.WatchEntry {
	if len(items) == 0 {
		return nil
	}
	out := make([]po.WatchEntry, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

func copyStats(stats po.LibraryStats) po.LibraryStats {
	if stats.AverageScore != nil {
		v := *stats.AverageScore
		stats.AverageScore = &v
	}
	return stats
}
