package realtime

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/goevery/messenger/internal/messenger"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testMessage() messenger.Message {
	return messenger.Message{
		Id:             "message-1",
		SenderId:       "user-a",
		SenderName:     "Alice",
		Content:        "hi",
		ConversationId: "conversation-1",
		Timestamp:      time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		MessageType:    messenger.MessageTypeText,
	}
}

func TestDispatcher(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("one send attempt per live channel", func(t *testing.T) {
		registry := NewRegistry(logger)
		dispatcher := NewDispatcher(logger, registry)

		first := newFakeChannel("conn-1", "user-a")
		second := newFakeChannel("conn-2", "user-a")
		registry.Register("user-a", first)
		registry.Register("user-a", second)

		// user-b is a recipient with zero live channels.
		dispatcher.Dispatch(NewMessageEvent(testMessage()), []string{"user-a", "user-b"})

		assert.Equal(t, 1, first.sentCount())
		assert.Equal(t, 1, second.sentCount())
	})

	t.Run("offline recipient receives nothing and is not an error", func(t *testing.T) {
		registry := NewRegistry(logger)
		dispatcher := NewDispatcher(logger, registry)

		assert.NotPanics(t, func() {
			dispatcher.Dispatch(NewMessageEvent(testMessage()), []string{"user-b"})
		})
	})

	t.Run("unreachable channel does not block the others", func(t *testing.T) {
		registry := NewRegistry(logger)
		dispatcher := NewDispatcher(logger, registry)

		broken := newFakeChannel("conn-1", "user-a")
		broken.sendErr = errors.New("peer went away")
		healthy := newFakeChannel("conn-2", "user-a")
		other := newFakeChannel("conn-3", "user-b")

		registry.Register("user-a", broken)
		registry.Register("user-a", healthy)
		registry.Register("user-b", other)

		dispatcher.Dispatch(NewMessageEvent(testMessage()), []string{"user-a", "user-b"})

		assert.Equal(t, 0, broken.sentCount())
		assert.Equal(t, 1, healthy.sentCount())
		assert.Equal(t, 1, other.sentCount())
	})

	t.Run("payload matches the wire shape", func(t *testing.T) {
		registry := NewRegistry(logger)
		dispatcher := NewDispatcher(logger, registry)

		channel := newFakeChannel("conn-1", "user-a")
		registry.Register("user-a", channel)

		dispatcher.Dispatch(NewMessageEvent(testMessage()), []string{"user-a"})

		expected := `{"type":"new_message","message":{` +
			`"id":"message-1",` +
			`"sender_id":"user-a",` +
			`"sender_name":"Alice",` +
			`"sender_avatar":null,` +
			`"content":"hi",` +
			`"conversation_id":"conversation-1",` +
			`"timestamp":"2026-01-02T15:04:05Z",` +
			`"message_type":"text"}}`

		if assert.Equal(t, 1, channel.sentCount()) {
			assert.Equal(t, expected, string(channel.sent[0]))
		}
	})

	t.Run("event round-trips through json", func(t *testing.T) {
		registry := NewRegistry(logger)
		dispatcher := NewDispatcher(logger, registry)

		channel := newFakeChannel("conn-1", "user-a")
		registry.Register("user-a", channel)

		message := testMessage()
		dispatcher.Dispatch(NewMessageEvent(message), []string{"user-a"})

		var decoded Event
		err := json.Unmarshal(channel.sent[0], &decoded)
		assert.NoError(t, err)
		assert.Equal(t, EventTypeNewMessage, decoded.Type)
		assert.Equal(t, message, *decoded.Message)
	})
}
