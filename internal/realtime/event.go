package realtime

import "github.com/goevery/messenger/internal/messenger"

const EventTypeNewMessage = "new_message"

// Event is the payload pushed verbatim to every resolved channel. Immutable
// once constructed.
type Event struct {
	Type    string             `json:"type"`
	Message *messenger.Message `json:"message,omitempty"`
}

func NewMessageEvent(message messenger.Message) Event {
	return Event{
		Type:    EventTypeNewMessage,
		Message: &message,
	}
}
