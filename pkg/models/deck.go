package models

import (
	"time"

	"github.com/google/uuid"
)

// Default session limits applied when a deck doesn't configure its own
const (
	DefaultCardsPerSession = 20
	DefaultReviewLimit     = 20
	DefaultNewLimit        = 10
)

// Deck represents a collection of flashcards owned by a user
type Deck struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	Name             string     `json:"name" db:"name"`
	Description      string     `json:"description" db:"description"`
	IsPublic         bool       `json:"is_public" db:"is_public"`
	CardsPerSession  int        `json:"cards_per_session" db:"cards_per_session"`
	ReviewLimit      int        `json:"review_limit" db:"review_limit"`             // Max review-tier cards per session
	NewLimit         int        `json:"new_limit" db:"new_limit"`                   // Max learn-tier cards per session
	IsCustomStudy    bool       `json:"is_custom_study" db:"is_custom_study"`       // Ephemeral snapshot deck
	SourceDeckID     *uuid.UUID `json:"source_deck_id" db:"source_deck_id"`         // Deck a custom study was built from
	StudyHorizonDays int        `json:"study_horizon_days" db:"study_horizon_days"` // Custom-study due window, 0 = unset
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Lookahead returns the due window in days used when selecting cards from
// this deck. Ordinary decks always use a one-day window; custom-study decks
// use their configured horizon.
func (d *Deck) Lookahead() int {
	if d.IsCustomStudy && d.StudyHorizonDays > 0 {
		return d.StudyHorizonDays
	}
	return 1
}
