package models

import (
	"time"

	"github.com/google/uuid"
)

// CardState is the scheduling lifecycle of a flashcard
type CardState string

const (
	// CardStateNew means the card has never been reviewed
	CardStateNew CardState = "new"
	// CardStateDue means the card has been reviewed or explicitly queued
	CardStateDue CardState = "due"
	// CardStateSuspended excludes the card from all selection
	CardStateSuspended CardState = "suspended"
)

// Flashcard represents a single card together with its SM-2 scheduling state
type Flashcard struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	DeckID       uuid.UUID  `json:"deck_id" db:"deck_id"`
	FrontContent string     `json:"front_content" db:"front_content"`
	BackContent  string     `json:"back_content" db:"back_content"`
	Hint         string     `json:"hint" db:"hint"`
	Mnemonic     string     `json:"mnemonic" db:"mnemonic"`
	IntervalDays int        `json:"interval_days" db:"interval_days"`   // Current interval in days
	EaseFactor   float64    `json:"ease_factor" db:"ease_factor"`       // SM-2 EF parameter, never below 1.3
	Repetitions  int        `json:"repetitions" db:"repetitions"`       // Consecutive successful reviews since last lapse
	NextReviewAt *time.Time `json:"next_review_at" db:"next_review_at"` // nil means never scheduled, immediately eligible
	State        CardState  `json:"state" db:"state"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// NewFlashcard creates a card with the initial scheduling state: immediately
// eligible, default ease factor, no review history.
func NewFlashcard(deckID uuid.UUID, front, back string, now time.Time) *Flashcard {
	return &Flashcard{
		ID:           uuid.New(),
		DeckID:       deckID,
		FrontContent: front,
		BackContent:  back,
		IntervalDays: 0,
		EaseFactor:   2.5,
		Repetitions:  0,
		NextReviewAt: &now,
		State:        CardStateNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
