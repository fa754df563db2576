package po_test

import (
	"sort"
	"testing"
	"time"

	"github.com/bionicotaku/anima-library/internal/models/po"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRoomMessageLess_OrdersByCreatedAt(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 10, 26, 12, 0, 0, 0, time.UTC)
	early := po.RoomMessage{MessageID: uuid.MustParse("ffffffff-0000-4000-8000-000000000000"), CreatedAt: base}
	late := po.RoomMessage{MessageID: uuid.MustParse("00000000-0000-4000-8000-000000000000"), CreatedAt: base.Add(time.Millisecond)}

	require.True(t, early.Less(late))
	require.False(t, late.Less(early))
}

func TestRoomMessageLess_TiebreakUsesMessageIDBytes(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 10, 26, 12, 0, 0, 0, time.UTC)
	ids := []uuid.UUID{
		uuid.MustParse("a0000000-0000-4000-8000-000000000000"),
		uuid.MustParse("09000000-0000-4000-8000-000000000000"),
		uuid.MustParse("0a000000-0000-4000-8000-000000000000"),
		uuid.MustParse("00000000-0000-4000-8000-0000000000ff"),
	}
	msgs := make([]po.RoomMessage, 0, len(ids))
	for _, id := range ids {
		msgs = append(msgs, po.RoomMessage{MessageID: id, CreatedAt: at})
	}

	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Less(msgs[j]) })

	require.Equal(t, []uuid.UUID{ids[3], ids[1], ids[2], ids[0]}, []uuid.UUID{
		msgs[0].MessageID, msgs[1].MessageID, msgs[2].MessageID, msgs[3].MessageID,
	})

	same := po.RoomMessage{MessageID: ids[0], CreatedAt: at}
	require.False(t, same.Less(same), "equal keys must not be less")
}
