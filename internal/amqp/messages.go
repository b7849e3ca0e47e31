package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType names what happened to a record.
type EventType string

const (
	ExpenseCreated EventType = "expense.created"
	ExpenseDeleted EventType = "expense.deleted"
)

// RecordEvent is a lightweight notification that a record changed. Consumers
// read the current state from the store; the event carries only the id.
type RecordEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	Type      EventType `json:"type"`
	RecordID  int64     `json:"record_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordEvent stamps a fresh event id and the current time.
func NewRecordEvent(t EventType, recordID int64) RecordEvent {
	return RecordEvent{
		EventID:   uuid.New(),
		Type:      t,
		RecordID:  recordID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON decodes and checks an event body.
func RecordEventFromJSON(data []byte) (RecordEvent, error) {
	var evt RecordEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return RecordEvent{}, err
	}
	switch evt.Type {
	case ExpenseCreated, ExpenseDeleted:
	default:
		return RecordEvent{}, fmt.Errorf("unknown event type %q", evt.Type)
	}
	return evt, nil
}
