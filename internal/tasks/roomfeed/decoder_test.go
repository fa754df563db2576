package roomfeed

import (
	"errors"
	"testing"
	"time"

	outboxevents "github.com/bionicotaku/anima-library/internal/models/outbox_events"

	"github.com/google/uuid"
)

func TestDecoderJSON(t *testing.T) {
	decoder := newEventDecoder()
	payload := []byte(`{"message_id":"8c22ebce-2222-4e87-bbbb-bbbbbbbbbbbb","room_id":"7b61d0ed-1111-4c3e-9d93-aaaaaaaaaaaa","user_id":" user-1 ","body":"  hello  ","created_at":"2025-10-26T12:00:00+08:00"}`)

	evt, err := decoder.Decode(payload)
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if evt.EventName != EventNamePosted {
		t.Fatalf("expected default event name, got %s", evt.EventName)
	}
	if evt.Version != EventVersion {
		t.Fatalf("expected version fallback, got %s", evt.Version)
	}
	if evt.UserID != "user-1" || evt.Body != "hello" {
		t.Fatalf("expected trimmed fields, got user=%q body=%q", evt.UserID, evt.Body)
	}
	if evt.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected created_at in UTC")
	}

	msg, err := evt.Message()
	if err != nil {
		t.Fatalf("message: %v", err)
	}
	if msg.RoomID != uuid.MustParse("7b61d0ed-1111-4c3e-9d93-aaaaaaaaaaaa") {
		t.Fatalf("unexpected room id: %s", msg.RoomID)
	}
	if !msg.CreatedAt.Equal(time.Date(2025, 10, 26, 4, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected created_at: %s", msg.CreatedAt)
	}
}

func TestDecoderRejectsMissingCreatedAt(t *testing.T) {
	decoder := newEventDecoder()

	evt, err := decoder.Decode([]byte(`{"message_id":"8c22ebce-2222-4e87-bbbb-bbbbbbbbbbbb","room_id":"7b61d0ed-1111-4c3e-9d93-aaaaaaaaaaaa","user_id":"u","body":"b"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !evt.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to stay unset, got %s", evt.CreatedAt)
	}
	if _, err := evt.Message(); !errors.Is(err, outboxevents.ErrInvalidPayload) {
		t.Fatalf("expected invalid payload error, got %v", err)
	}
}

func TestDecoderRejectsInvalidPayload(t *testing.T) {
	decoder := newEventDecoder()
	if _, err := decoder.Decode(nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := decoder.Decode([]byte(`{not json`)); err == nil {
		t.Fatalf("expected error for malformed payload")
	}

	cases := map[string]string{
		"bad room":      `{"message_id":"8c22ebce-2222-4e87-bbbb-bbbbbbbbbbbb","room_id":"nope","user_id":"u","body":"b"}`,
		"bad message":   `{"message_id":"x","room_id":"7b61d0ed-1111-4c3e-9d93-aaaaaaaaaaaa","user_id":"u","body":"b"}`,
		"missing body":  `{"message_id":"8c22ebce-2222-4e87-bbbb-bbbbbbbbbbbb","room_id":"7b61d0ed-1111-4c3e-9d93-aaaaaaaaaaaa","user_id":"u","body":"  "}`,
		"missing user":  `{"message_id":"8c22ebce-2222-4e87-bbbb-bbbbbbbbbbbb","room_id":"7b61d0ed-1111-4c3e-9d93-aaaaaaaaaaaa","body":"b","created_at":"2025-10-26T12:00:00Z"}`,
		"missing time":  `{"message_id":"8c22ebce-2222-4e87-bbbb-bbbbbbbbbbbb","room_id":"7b61d0ed-1111-4c3e-9d93-aaaaaaaaaaaa","user_id":"u","body":"b"}`,
		"unknown event": `{"event_name":"library.room.deleted","message_id":"8c22ebce-2222-4e87-bbbb-bbbbbbbbbbbb","room_id":"7b61d0ed-1111-4c3e-9d93-aaaaaaaaaaaa","user_id":"u","body":"b"}`,
	}
	for name, payload := range cases {
		evt, err := decoder.Decode([]byte(payload))
		if err != nil {
			t.Fatalf("%s: unexpected decode error: %v", name, err)
		}
		if _, err := evt.Message(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
