package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/anima-library/internal/repositories"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// EpisodeAiringClock 通过房间登记的播出时间判断是否已播出。
type EpisodeAiringClock struct {
	rooms RoomsRepository
	now   func() time.Time
	log   *log.Helper
}

// NewEpisodeAiringClock 构造 EpisodeAiringClock。
func NewEpisodeAiringClock(rooms RoomsRepository, logger log.Logger) *EpisodeAiringClock {
	return &EpisodeAiringClock{
		rooms: rooms,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log.NewHelper(logger),
	}
}

// WithNow 返回使用指定时钟的副本，便于测试时间推进。
func (c *EpisodeAiringClock) WithNow(now func() time.Time) *EpisodeAiringClock {
	clone := *c
	clone.now = now
	return &clone
}

// IsAired 判断房间对应剧集在当前时刻是否已播出。
func (c *EpisodeAiringClock) IsAired(ctx context.Context, roomID uuid.UUID) (bool, error) {
	room, err := c.rooms.Get(ctx, nil, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrEpisodeRoomNotFound) {
			return false, ErrRoomNotFound
		}
		c.log.WithContext(ctx).Errorf("load episode room failed: room=%s err=%v", roomID, err)
		return false, fmt.Errorf("is aired: %w", err)
	}
	return room.IsAired(c.now()), nil
}
