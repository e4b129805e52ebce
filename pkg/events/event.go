package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "chat.turn.recorded").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common implementation events are built from.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// ChatTurnRecordedType is published after every persisted chat turn.
const ChatTurnRecordedType = "chat.turn.recorded"

func NewChatTurnRecorded(conversationID, userID, generatedVia, fallbackReason string) Event {
	return BaseEvent{
		Type: ChatTurnRecordedType,
		Data: map[string]interface{}{
			"event_id":        uuid.NewString(),
			"conversation_id": conversationID,
			"user_id":         userID,
			"generated_via":   generatedVia,
			"fallback_reason": fallbackReason,
		},
		OccurredAt: time.Now(),
	}
}
