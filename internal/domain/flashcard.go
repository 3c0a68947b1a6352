package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// FlashcardStatus is the moderation state of a flashcard.
type FlashcardStatus string

// Possible flashcard status values
const (
	FlashcardStatusPending  FlashcardStatus = "pending"
	FlashcardStatusAccepted FlashcardStatus = "accepted"
	FlashcardStatusRejected FlashcardStatus = "rejected"
)

// IsValid reports whether s is a known status.
func (s FlashcardStatus) IsValid() bool {
	switch s {
	case FlashcardStatusPending, FlashcardStatusAccepted, FlashcardStatusRejected:
		return true
	default:
		return false
	}
}

// Flashcard-specific validation errors
var (
	ErrFlashcardIDEmpty       = errors.New("flashcard ID cannot be empty")
	ErrFlashcardDeckIDEmpty   = errors.New("flashcard deck ID cannot be empty")
	ErrFlashcardQuestionEmpty = errors.New("flashcard question cannot be empty")
	ErrFlashcardDueDateEmpty  = errors.New("flashcard next due date cannot be empty")
)

// Flashcard is a question/answer pair that belongs to a deck. Box and
// NextDueDate are a denormalised cache of what the most recent review implies;
// the review log remains the source of truth for history.
type Flashcard struct {
	ID          uuid.UUID       `json:"id"`
	DeckID      uuid.UUID       `json:"deck_id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	DeckName    string          `json:"deck_name,omitempty"`
	Question    string          `json:"question"`
	Answer      string          `json:"answer"`
	Status      FlashcardStatus `json:"status"`
	Box         Box             `json:"box"`
	NextDueDate time.Time       `json:"next_due_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewFlashcard creates a pending flashcard in box1 that is due immediately.
func NewFlashcard(deckID, ownerID uuid.UUID, question, answer string, now time.Time) (*Flashcard, error) {
	card := &Flashcard{
		ID:          uuid.New(),
		DeckID:      deckID,
		OwnerID:     ownerID,
		Question:    question,
		Answer:      answer,
		Status:      FlashcardStatusPending,
		Box:         Box1,
		NextDueDate: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
func (f *Flashcard) Validate() error {
	if f.ID == uuid.Nil {
		return ErrFlashcardIDEmpty
	}
	if f.DeckID == uuid.Nil {
		return ErrFlashcardDeckIDEmpty
	}
	if f.Question == "" {
		return ErrFlashcardQuestionEmpty
	}
	if !f.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !f.Box.IsValid() {
		return ErrInvalidBox
	}
	if f.NextDueDate.IsZero() {
		return ErrFlashcardDueDateEmpty
	}
	return nil
}

// IsSchedulable reports whether the card can appear in a review queue:
// it must be accepted and not yet graduated.
func (f *Flashcard) IsSchedulable() bool {
	return f.Status == FlashcardStatusAccepted && !f.Box.IsTerminal()
}

// Schedule is the part of a flashcard that a review changes.
type Schedule struct {
	Box         Box       `json:"box"`
	NextDueDate time.Time `json:"next_due_date"`
}

// Schedule returns the card's current box and due date.
func (f *Flashcard) Schedule() Schedule {
	return Schedule{Box: f.Box, NextDueDate: f.NextDueDate}
}
