package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewLog is one immutable entry in the review ledger. Entries are only
// ever inserted; the scheduler never reads them back.
type ReviewLog struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	FlashcardID uuid.UUID `json:"flashcard_id" db:"flashcard_id"`
	Rating      int       `json:"rating" db:"rating"`   // 1=Again, 2=Hard, 3=Good, 4=Easy
	Quality     int       `json:"quality" db:"quality"` // 0-5 SM-2 quality derived from the rating
	TimeTakenMs int       `json:"time_taken_ms" db:"time_taken_ms"`
	ReviewedAt  time.Time `json:"reviewed_at" db:"reviewed_at"`
}
