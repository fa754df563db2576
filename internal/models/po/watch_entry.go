// Package po 定义与 library schema 对应的持久化对象。
package po

import (
	"strings"
	"time"
)

// WatchStatus 表示条目的观看状态。
type WatchStatus string

const (
	WatchStatusPlanning  WatchStatus = "planning"
	WatchStatusWatching  WatchStatus = "watching"
	WatchStatusPaused    WatchStatus = "paused"
	WatchStatusDropped   WatchStatus = "dropped"
	WatchStatusCompleted WatchStatus = "completed"
)

// AllWatchStatuses 按展示顺序列出全部状态。
var AllWatchStatuses = []WatchStatus{
	WatchStatusPlanning,
	WatchStatusWatching,
	WatchStatusPaused,
	WatchStatusDropped,
	WatchStatusCompleted,
}

// Valid 判断状态是否为已知取值。
func (s WatchStatus) Valid() bool {
	switch s {
	case WatchStatusPlanning, WatchStatusWatching, WatchStatusPaused, WatchStatusDropped, WatchStatusCompleted:
		return true
	default:
		return false
	}
}

// ParseWatchStatus 解析大小写不敏感的状态字符串。
func ParseWatchStatus(raw string) (WatchStatus, bool) {
	status := WatchStatus(strings.ToLower(strings.TrimSpace(raw)))
	return status, status.Valid()
}

// WatchEntry 表示 library.entries 表中的一行：某用户对某作品的观看记录。
type WatchEntry struct {
	UserID        string
	TitleID       string
	TitleName     string
	Status        WatchStatus
	Progress      int32
	TotalEpisodes *int32
	Score         *float64
	Notes         *string
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Clone 返回深拷贝，指针字段不与原对象共享。
func (e WatchEntry) Clone() WatchEntry {
	out := e
	if e.TotalEpisodes != nil {
		v := *e.TotalEpisodes
		out.TotalEpisodes = &v
	}
	if e.Score != nil {
		v := *e.Score
		out.Score = &v
	}
	if e.Notes != nil {
		v := *e.Notes
		out.Notes = &v
	}
	if e.StartedAt != nil {
		v := *e.StartedAt
		out.StartedAt = &v
	}
	if e.CompletedAt != nil {
		v := *e.CompletedAt
		out.CompletedAt = &v
	}
	return out
}

// TitleRef 描述加入片单时携带的作品元信息。
type TitleRef struct {
	TitleID       string
	TitleName     string
	TotalEpisodes *int32
}

// LibraryStats 表示片单聚合统计。
type LibraryStats struct {
	Total           int64
	Planning        int64
	Watching        int64
	Paused          int64
	Dropped         int64
	Completed       int64
	EpisodesWatched int64
	ScoredCount     int64
	AverageScore    *float64
}

// ComputeLibraryStats 基于条目列表计算统计；平均分只统计已评分条目。
func ComputeLibraryStats(entries []WatchEntry) LibraryStats {
	var (
		stats    LibraryStats
		scoreSum float64
	)
	for _, entry := range entries {
		stats.Total++
		switch entry.Status {
		case WatchStatusPlanning:
			stats.Planning++
		case WatchStatusWatching:
			stats.Watching++
		case WatchStatusPaused:
			stats.Paused++
		case WatchStatusDropped:
			stats.Dropped++
		case WatchStatusCompleted:
			stats.Completed++
		}
		stats.EpisodesWatched += int64(entry.Progress)
		if entry.Score != nil {
			stats.ScoredCount++
			scoreSum += *entry.Score
		}
	}
	if stats.ScoredCount > 0 {
		avg := scoreSum / float64(stats.ScoredCount)
		stats.AverageScore = &avg
	}
	return stats
}
