// Package dto 定义 HTTP 层的请求/响应结构，以及与持久化对象之间的转换。
package dto

import (
	"time"

	"github.com/bionicotaku/anima-library/internal/models/po"
)

// ListLibraryRequest 对应 GET /v1/library。
type ListLibraryRequest struct {
	UserID string `json:"user_id,omitempty"`
}

// SetFilterRequest 对应 PUT /v1/library/filter。
type SetFilterRequest struct {
	UserID string `json:"user_id,omitempty"`
	Filter string `json:"filter"`
}

// AddEntryRequest 对应 POST /v1/library/entries。
type AddEntryRequest struct {
	UserID        string `json:"user_id,omitempty"`
	TitleID       string `json:"title_id"`
	TitleName     string `json:"title_name"`
	TotalEpisodes *int32 `json:"total_episodes,omitempty"`
	Status        string `json:"status,omitempty"`
}

// EntryRequest 定位单个条目。
type EntryRequest struct {
	UserID  string `json:"user_id,omitempty"`
	TitleID string `json:"title_id"`
}

// UpdateStatusRequest 对应 PATCH .../status。
type UpdateStatusRequest struct {
	UserID  string `json:"user_id,omitempty"`
	TitleID string `json:"title_id"`
	Status  string `json:"status"`
}

// UpdateProgressRequest 对应 PATCH .../progress。
type UpdateProgressRequest struct {
	UserID   string `json:"user_id,omitempty"`
	TitleID  string `json:"title_id"`
	Progress *int32 `json:"progress"`
}

// UpdateScoreRequest 对应 PATCH .../score；score 为 null 表示清除。
type UpdateScoreRequest struct {
	UserID  string   `json:"user_id,omitempty"`
	TitleID string   `json:"title_id"`
	Score   *float64 `json:"score"`
}

// UpdateNotesRequest 对应 PATCH .../notes；notes 为 null 表示清除。
type UpdateNotesRequest struct {
	UserID  string  `json:"user_id,omitempty"`
	TitleID string  `json:"title_id"`
	Notes   *string `json:"notes"`
}

// Entry 是条目的对外表示。
type Entry struct {
	TitleID       string     `json:"title_id"`
	TitleName     string     `json:"title_name"`
	Status        string     `json:"status"`
	Progress      int32      `json:"progress"`
	TotalEpisodes *int32     `json:"total_episodes,omitempty"`
	Score         *float64   `json:"score,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Stats 是片单统计的对外表示。
type Stats struct {
	Total           int64    `json:"total"`
	Planning        int64    `json:"planning"`
	Watching        int64    `json:"watching"`
	Paused          int64    `json:"paused"`
	Dropped         int64    `json:"dropped"`
	Completed       int64    `json:"completed"`
	EpisodesWatched int64    `json:"episodes_watched"`
	ScoredCount     int64    `json:"scored_count"`
	AverageScore    *float64 `json:"average_score,omitempty"`
}

// LibraryResponse 返回当前筛选视图与统计。
type LibraryResponse struct {
	UserID    string  `json:"user_id"`
	Filter    string  `json:"filter"`
	Entries   []Entry `json:"entries"`
	Total     int     `json:"total"`
	Stats     Stats   `json:"stats"`
	LastError string  `json:"last_error,omitempty"`
}

// StatsResponse 返回远端统计。
type StatsResponse struct {
	Stats Stats `json:"stats"`
}

// EntryResponse 返回单个条目；远端成功但本地无此条目时为空。
type EntryResponse struct {
	Entry *Entry `json:"entry,omitempty"`
}

// RemoveEntryResponse 对应 DELETE 条目。
type RemoveEntryResponse struct {
	TitleID string `json:"title_id"`
	Removed bool   `json:"removed"`
}

// CanPostResponse 返回发言资格。
type CanPostResponse struct {
	TitleID string `json:"title_id"`
	CanPost bool   `json:"can_post"`
}

// ToEntry 转换条目。
func ToEntry(entry po.WatchEntry) Entry {
	entry = entry.Clone()
	return Entry{
		TitleID:       entry.TitleID,
		TitleName:     entry.TitleName,
		Status:        string(entry.Status),
		Progress:      entry.Progress,
		TotalEpisodes: entry.TotalEpisodes,
		Score:         entry.Score,
		Notes:         entry.Notes,
		StartedAt:     entry.StartedAt,
		CompletedAt:   entry.CompletedAt,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
	}
}

// ToEntries 批量转换，空列表返回非 nil 切片。
func ToEntries(entries []po.WatchEntry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, ToEntry(entry))
	}
	return out
}

// ToStats 转换统计。
func ToStats(stats po.LibraryStats) Stats {
	out := Stats{
		Total:           stats.Total,
		Planning:        stats.Planning,
		Watching:        stats.Watching,
		Paused:          stats.Paused,
		Dropped:         stats.Dropped,
		Completed:       stats.Completed,
		EpisodesWatched: stats.EpisodesWatched,
		ScoredCount:     stats.ScoredCount,
	}
	if stats.AverageScore != nil {
		v := *stats.AverageScore
		out.AverageScore = &v
	}
	return out
}
