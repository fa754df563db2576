package services

import (
	"time"

	"github.com/bionicotaku/anima-library/internal/models/po"
)

type changeKind int

const (
	changeProgress changeKind = iota + 1
	changeStatus
)

// Change 描述一次会影响状态机的条目变更。
type Change struct {
	kind     changeKind
	progress int32
	status   po.WatchStatus
}

// ProgressChange 构造进度变更。
func ProgressChange(progress int32) Change {
	return Change{kind: changeProgress, progress: progress}
}

// StatusChange 构造显式状态变更。
func StatusChange(status po.WatchStatus) Change {
	return Change{kind: changeStatus, status: status}
}

// Transition 是 DeriveTransition 的结果。
type Transition struct {
	Status      po.WatchStatus
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// DeriveTransition 根据变更推导状态与起止时间，不修改入参。
//
// 进度变更：已知总集数且进度达到总集数时置为 completed 并刷新 CompletedAt；
// 否则 planning 状态下进度大于 0 时转为 watching，StartedAt 仅在缺失时写入。
// 状态变更：直接采用新状态；watching 仅补写缺失的 StartedAt，completed 总是刷新 CompletedAt。
func DeriveTransition(entry po.WatchEntry, change Change, now time.Time) Transition {
	out := Transition{
		Status:      entry.Status,
		StartedAt:   copyTime(entry.StartedAt),
		CompletedAt: copyTime(entry.CompletedAt),
	}

	switch change.kind {
	case changeProgress:
		switch {
		case entry.TotalEpisodes != nil && change.progress >= *entry.TotalEpisodes:
			out.Status = po.WatchStatusCompleted
			out.CompletedAt = timePtr(now)
		case change.progress > 0 && entry.Status == po.WatchStatusPlanning:
			out.Status = po.WatchStatusWatching
			if out.StartedAt == nil {
				out.StartedAt = timePtr(now)
			}
		}
	case changeStatus:
		out.Status = change.status
		if change.status == po.WatchStatusWatching && out.StartedAt == nil {
			out.StartedAt = timePtr(now)
		}
		if change.status == po.WatchStatusCompleted {
			out.CompletedAt = timePtr(now)
		}
	}
	return out
}

// Apply 将 Transition 写回条目副本。
func (t Transition) Apply(entry po.WatchEntry) po.WatchEntry {
	entry.Status = t.Status
	entry.StartedAt = copyTime(t.StartedAt)
	entry.CompletedAt = copyTime(t.CompletedAt)
	return entry
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}
