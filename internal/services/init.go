// Package services 包含片单与剧集房间的业务编排逻辑。
// 该层协调 Repository、消息流与时钟，实现观看状态推导与房间闸门规则，不直接依赖传输层。
package services

import (
	"github.com/bionicotaku/anima-library/internal/repositories"

	"github.com/google/wire"
)

// ProviderSet 暴露 Services 层的构造函数及接口绑定供 Wire 使用。
var ProviderSet = wire.NewSet(
	NewLibraryDirectory,
	NewEpisodeAiringClock,
	NewRoomAttestationService,
	NewEpisodeRoomService,
	NewRoomMessageService,
	NewSessionRegistry,

	wire.Bind(new(DirectoryService), new(*LibraryDirectory)),
	wire.Bind(new(PostEligibilityChecker), new(*LibraryDirectory)),
	wire.Bind(new(AiringClock), new(*EpisodeAiringClock)),
	wire.Bind(new(AttestationService), new(*RoomAttestationService)),
	wire.Bind(new(MessageHistory), new(*repositories.RoomMessagesRepository)),

	wire.Bind(new(EntriesRepository), new(*repositories.LibraryEntriesRepository)),
	wire.Bind(new(AccountsRepository), new(*repositories.LibraryAccountsRepository)),
	wire.Bind(new(RoomsRepository), new(*repositories.EpisodeRoomsRepository)),
	wire.Bind(new(RoomAccessRepository), new(*repositories.RoomAccessRepository)),
	wire.Bind(new(RoomMessagesRepository), new(*repositories.RoomMessagesRepository)),
)
