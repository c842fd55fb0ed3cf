package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventFoodCreated      EventType = "food_created"
	EventFoodUpdated      EventType = "food_updated"
	EventFoodsDeleted     EventType = "foods_deleted"
	EventThresholdUpdated EventType = "threshold_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, userID, actorID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// FoodPayload describes a created or updated entry.
type FoodPayload struct {
	FoodID       string    `json:"food_id"`
	ProductName  string    `json:"product_name"`
	Calorie      float64   `json:"calorie"`
	TimeConsumed time.Time `json:"time_consumed"`
	IsCheatFood  bool      `json:"is_cheat_food"`
}

// FoodsDeletedPayload lists removed entry ids and, for the entries that
// existed, whose day they counted towards.
type FoodsDeletedPayload struct {
	FoodIDs []string       `json:"food_ids"`
	Deleted int64          `json:"deleted"`
	Entries []DeletedEntry `json:"entries"`
}

// DeletedEntry is the creator and consumption time of a removed entry.
type DeletedEntry struct {
	CreatorID    string    `json:"creator_id"`
	TimeConsumed time.Time `json:"time_consumed"`
}

// ThresholdUpdatedPayload payload.
type ThresholdUpdatedPayload struct {
	OldThreshold int `json:"old_threshold"`
	NewThreshold int `json:"new_threshold"`
}
