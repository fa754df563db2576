package mocks

//go:generate go run github.com/golang/mock/mockgen -destination=mock_airing_clock.go -package=mocks github.com/bionicotaku/anima-library/internal/services AiringClock
//go:generate go run github.com/golang/mock/mockgen -destination=mock_attestation_service.go -package=mocks github.com/bionicotaku/anima-library/internal/services AttestationService
//go:generate go run github.com/golang/mock/mockgen -destination=mock_message_stream.go -package=mocks github.com/bionicotaku/anima-library/internal/services MessageStream
//go:generate go run github.com/golang/mock/mockgen -destination=mock_message_announcer.go -package=mocks github.com/bionicotaku/anima-library/internal/services MessageAnnouncer
//go:generate go run github.com/golang/mock/mockgen -destination=mock_entries_repository.go -package=mocks github.com/bionicotaku/anima-library/internal/services EntriesRepository
//go:generate go run github.com/golang/mock/mockgen -destination=mock_accounts_repository.go -package=mocks github.com/bionicotaku/anima-library/internal/services AccountsRepository
//go:generate go run github.com/golang/mock/mockgen -destination=mock_rooms_repository.go -package=mocks github.com/bionicotaku/anima-library/internal/services RoomsRepository
//go:generate go run github.com/golang/mock/mockgen -destination=mock_room_access_repository.go -package=mocks github.com/bionicotaku/anima-library/internal/services RoomAccessRepository
//go:generate go run github.com/golang/mock/mockgen -destination=mock_room_messages_repository.go -package=mocks github.com/bionicotaku/anima-library/internal/services RoomMessagesRepository
//go:generate go run github.com/golang/mock/mockgen -destination=mock_outbox_enqueuer.go -package=mocks github.com/bionicotaku/anima-library/internal/services OutboxEnqueuer
