package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// TypeReviewRecorded is emitted after a review and its schedule change
	// have been committed.
	TypeReviewRecorded = "review.recorded"
)

// Event is a fact that has already happened, published to in-process
// handlers after the corresponding transaction commits.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	UserID    uuid.UUID       `json:"user_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent builds an event of the given type for userID. The timestamp is
// supplied by the caller.
func NewEvent(eventType string, userID uuid.UUID, payload any, at time.Time) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		UserID:    userID,
		Payload:   raw,
		CreatedAt: at,
	}, nil
}

// ReviewRecordedPayload describes a committed review.
type ReviewRecordedPayload struct {
	ReviewID    uuid.UUID `json:"review_id"`
	FlashcardID uuid.UUID `json:"flashcard_id"`
	IsCorrect   bool      `json:"is_correct"`
	PreviousBox string    `json:"previous_box"`
	NewBox      string    `json:"new_box"`
	NextDueDate time.Time `json:"next_due_date"`
}

// EventHandler processes events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter publishes events to handlers without the publisher knowing
// who listens.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}
