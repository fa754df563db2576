package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bionicotaku/anima-library/internal/models/po"
	"github.com/bionicotaku/anima-library/internal/repositories"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// EpisodeRoomService 负责剧集房间的登记与查询。
type EpisodeRoomService struct {
	rooms RoomsRepository
	log   *log.Helper
}

// NewEpisodeRoomService 构造 EpisodeRoomService。
func NewEpisodeRoomService(rooms RoomsRepository, logger log.Logger) *EpisodeRoomService {
	return &EpisodeRoomService{rooms: rooms, log: log.NewHelper(logger)}
}

// RegisterRoomInput 描述房间登记参数。
type RegisterRoomInput struct {
	TitleID       string
	EpisodeNumber int32
	AiringAt      time.Time
}

// Register 登记（或更新播出时间）作品某一集的讨论房间。
func (s *EpisodeRoomService) Register(ctx context.Context, input RegisterRoomInput) (*po.EpisodeRoom, error) {
	if strings.TrimSpace(input.TitleID) == "" {
		return nil, fmt.Errorf("%w: title_id required", ErrInvalidArgument)
	}
	if input.EpisodeNumber <= 0 {
		return nil, fmt.Errorf("%w: episode_number must be positive", ErrInvalidArgument)
	}
	if input.AiringAt.IsZero() {
		return nil, fmt.Errorf("%w: airing_at required", ErrInvalidArgument)
	}
	room, err := s.rooms.Upsert(ctx, nil, repositories.UpsertRoomInput{
		RoomID:        uuid.New(),
		TitleID:       strings.TrimSpace(input.TitleID),
		EpisodeNumber: input.EpisodeNumber,
		AiringAt:      input.AiringAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("register room: %w", mapRepositoryError(err))
	}
	return room, nil
}

// Get 返回房间信息。
func (s *EpisodeRoomService) Get(ctx context.Context, roomID uuid.UUID) (*po.EpisodeRoom, error) {
	room, err := s.rooms.Get(ctx, nil, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", mapRepositoryError(err))
	}
	return room, nil
}
