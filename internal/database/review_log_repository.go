package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/deckbot/pkg/models"
)

// ReviewLogRepository handles the append-only review ledger. There is no
// update or delete on purpose: the ledger is the durable record of what
// happened, while the card's scheduling state is just a derived cache of
// what to do next.
type ReviewLogRepository struct{}

// NewReviewLogRepository creates a new repository instance
func NewReviewLogRepository() *ReviewLogRepository {
	return &ReviewLogRepository{}
}

// Append inserts a new review log entry
func (r *ReviewLogRepository) Append(ctx context.Context, entry *models.ReviewLog) error {
	query := `
		INSERT INTO review_logs (
			id, user_id, flashcard_id, rating, quality, time_taken_ms, reviewed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := DB.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.FlashcardID,
		entry.Rating,
		entry.Quality,
		entry.TimeTakenMs,
		entry.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append review log: %w", err)
	}
	return nil
}

// GetByFlashcard returns the review history of a card, oldest first
func (r *ReviewLogRepository) GetByFlashcard(ctx context.Context, flashcardID uuid.UUID) ([]models.ReviewLog, error) {
	var entries []models.ReviewLog
	err := DB.SelectContext(ctx, &entries,
		"SELECT * FROM review_logs WHERE flashcard_id = $1 ORDER BY reviewed_at ASC", flashcardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review logs: %w", err)
	}
	return entries, nil
}

// CountSince returns the number of reviews a user submitted since the
// given time
func (r *ReviewLogRepository) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := DB.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM review_logs WHERE user_id = $1 AND reviewed_at >= $2", userID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count review logs: %w", err)
	}
	return count, nil
}
