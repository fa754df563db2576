package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bionicotaku/anima-library/internal/models/po"
	"github.com/bionicotaku/anima-library/internal/services"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/jackc/pgx/v5"
)

type fakeTxManager struct{}

type fakeSession struct{ ctx context.Context }

func (fakeTxManager) WithinTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, fakeSession{ctx: ctx})
}

func (fakeTxManager) WithinReadOnlyTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, fakeSession{ctx: ctx})
}

// recordingTxManager 记录事务调用次数与回调返回的错误，用于断言回滚路径。
type recordingTxManager struct {
	calls   int
	lastErr error
}

func (m *recordingTxManager) WithinTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	m.calls++
	m.lastErr = fn(ctx, fakeSession{ctx: ctx})
	return m.lastErr
}

func (m *recordingTxManager) WithinReadOnlyTx(ctx context.Context, opts txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return m.WithinTx(ctx, opts, fn)
}

func (fakeSession) Tx() pgx.Tx { return nil }

func (s fakeSession) Context() context.Context { return s.ctx }

func ptrString(v string) *string { return &v }

func ptrInt32(v int32) *int32 { return &v }

func ptrFloat(v float64) *float64 { return &v }

func ptrTime(t time.Time) *time.Time { return &t }

// fakeDirectory 是内存版 DirectoryService，可按操作注入错误。
type fakeDirectory struct {
	mu       sync.Mutex
	entries  []po.WatchEntry
	failures map[string]error
	calls    map[string]int
	now      func() time.Time
}

func newFakeDirectory(now func() time.Time, seed ...po.WatchEntry) *fakeDirectory {
	d := &fakeDirectory{
		failures: map[string]error{},
		calls:    map[string]int{},
		now:      now,
	}
	for _, entry := range seed {
		d.entries = append(d.entries, entry.Clone())
	}
	return d
}

func (d *fakeDirectory) fail(op string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.failures, op)
		return
	}
	d.failures[op] = err
}

func (d *fakeDirectory) callCount(op string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[op]
}

func (d *fakeDirectory) begin(op string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls[op]++
	return d.failures[op]
}

func (d *fakeDirectory) find(titleID string) int {
	for i := range d.entries {
		if d.entries[i].TitleID == titleID {
			return i
		}
	}
	return -1
}

func (d *fakeDirectory) List(_ context.Context, _ string) ([]po.WatchEntry, error) {
	if err := d.begin("list"); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]po.WatchEntry, 0, len(d.entries))
	for _, entry := range d.entries {
		out = append(out, entry.Clone())
	}
	return out, nil
}

func (d *fakeDirectory) Add(_ context.Context, userID string, title po.TitleRef, status po.WatchStatus) (po.WatchEntry, error) {
	if err := d.begin("add"); err != nil {
		return po.WatchEntry{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.find(title.TitleID) >= 0 {
		return po.WatchEntry{}, services.ErrEntryExists
	}
	now := d.now()
	base := po.WatchEntry{
		UserID:        userID,
		TitleID:       title.TitleID,
		TitleName:     title.TitleName,
		Status:        po.WatchStatusPlanning,
		TotalEpisodes: title.TotalEpisodes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	entry := services.DeriveTransition(base, services.StatusChange(status), now).Apply(base)
	d.entries = append([]po.WatchEntry{entry.Clone()}, d.entries...)
	return entry, nil
}

func (d *fakeDirectory) mutate(op, titleID string, fn func(*po.WatchEntry)) error {
	if err := d.begin(op); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.find(titleID)
	if idx < 0 {
		return services.ErrEntryNotFound
	}
	fn(&d.entries[idx])
	return nil
}

func (d *fakeDirectory) SetStatus(_ context.Context, _ string, titleID string, status po.WatchStatus) error {
	return d.mutate("set_status", titleID, func(e *po.WatchEntry) {
		*e = services.DeriveTransition(*e, services.StatusChange(status), d.now()).Apply(*e)
	})
}

func (d *fakeDirectory) SetProgress(_ context.Context, _ string, titleID string, progress int32) error {
	return d.mutate("set_progress", titleID, func(e *po.WatchEntry) {
		*e = services.DeriveTransition(*e, services.ProgressChange(progress), d.now()).Apply(*e)
		e.Progress = progress
	})
}

func (d *fakeDirectory) SetScore(_ context.Context, _ string, titleID string, score *float64) error {
	return d.mutate("set_score", titleID, func(e *po.WatchEntry) { e.Score = score })
}

func (d *fakeDirectory) SetNotes(_ context.Context, _ string, titleID string, notes *string) error {
	return d.mutate("set_notes", titleID, func(e *po.WatchEntry) { e.Notes = notes })
}

func (d *fakeDirectory) Remove(_ context.Context, _ string, titleID string) error {
	if err := d.begin("remove"); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.find(titleID)
	if idx < 0 {
		return services.ErrEntryNotFound
	}
	d.entries = append(d.entries[:idx], d.entries[idx+1:]...)
	return nil
}

func (d *fakeDirectory) Stats(_ context.Context, _ string) (po.LibraryStats, error) {
	if err := d.begin("stats"); err != nil {
		return po.LibraryStats{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return po.ComputeLibraryStats(d.entries), nil
}

func (d *fakeDirectory) CanPost(_ context.Context, _ string, titleID string) (bool, error) {
	if err := d.begin("can_post"); err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.find(titleID) >= 0, nil
}

// stepClock 每次调用前进一秒，保证时间戳可区分。
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock(start time.Time) *stepClock {
	return &stepClock{now: start}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// manualClock 只在测试显式推进时变化。
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newEntry(titleID string, status po.WatchStatus, progress int32, total *int32, createdAt time.Time) po.WatchEntry {
	return po.WatchEntry{
		UserID:        "user-1",
		TitleID:       titleID,
		TitleName:     fmt.Sprintf("Title %s", titleID),
		Status:        status,
		Progress:      progress,
		TotalEpisodes: total,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}
