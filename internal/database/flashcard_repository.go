package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/deckbot/pkg/models"
)

// ErrCardNotFound is returned when a flashcard lookup matches no row.
var ErrCardNotFound = errors.New("flashcard not found")

// FlashcardRepository handles database operations for flashcards
type FlashcardRepository struct{}

// NewFlashcardRepository creates a new repository instance
func NewFlashcardRepository() *FlashcardRepository {
	return &FlashcardRepository{}
}

// Create inserts a new flashcard
func (r *FlashcardRepository) Create(ctx context.Context, card *models.Flashcard) error {
	return r.create(ctx, DB, card)
}

// CreateBatchTx inserts a batch of flashcards within an existing
// transaction. Either every card is inserted or the transaction is left
// to roll back.
func (r *FlashcardRepository) CreateBatchTx(ctx context.Context, tx *sqlx.Tx, cards []models.Flashcard) error {
	for i := range cards {
		if err := r.create(ctx, tx, &cards[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *FlashcardRepository) create(ctx context.Context, ex sqlx.ExtContext, card *models.Flashcard) error {
	query := `
		INSERT INTO flashcards (
			id, deck_id, front_content, back_content, hint, mnemonic,
			interval_days, ease_factor, repetitions, next_review_at, state,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := ex.ExecContext(ctx, query,
		card.ID,
		card.DeckID,
		card.FrontContent,
		card.BackContent,
		card.Hint,
		card.Mnemonic,
		card.IntervalDays,
		card.EaseFactor,
		card.Repetitions,
		card.NextReviewAt,
		card.State,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create flashcard: %w", err)
	}
	return nil
}

// GetByID returns a flashcard by ID
func (r *FlashcardRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Flashcard, error) {
	var card models.Flashcard
	err := DB.GetContext(ctx, &card, "SELECT * FROM flashcards WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcard by ID: %w", err)
	}
	return &card, nil
}

// GetByDeck returns all flashcards in a deck
func (r *FlashcardRepository) GetByDeck(ctx context.Context, deckID uuid.UUID) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := DB.SelectContext(ctx, &cards, "SELECT * FROM flashcards WHERE deck_id = $1 ORDER BY created_at", deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcards for deck: %w", err)
	}
	return cards, nil
}

// GetDueByDeck returns the non-suspended cards in a deck whose next review
// falls on or before the horizon, or that were never scheduled. Cards are
// ordered by next review time with never-scheduled cards first.
func (r *FlashcardRepository) GetDueByDeck(ctx context.Context, deckID uuid.UUID, horizon time.Time) ([]models.Flashcard, error) {
	query := `
		SELECT * FROM flashcards
		WHERE deck_id = $1
		AND state != 'suspended'
		AND (next_review_at IS NULL OR next_review_at <= $2)
		ORDER BY next_review_at IS NOT NULL, next_review_at ASC
	`
	var cards []models.Flashcard
	err := DB.SelectContext(ctx, &cards, query, deckID, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to get due flashcards: %w", err)
	}
	return cards, nil
}

// UpdateScheduling persists a card's recomputed scheduling state. Content
// fields are left untouched. The write is last-writer-wins: when two
// reviews race, the later UPDATE simply overwrites the earlier one while
// both review log entries survive.
func (r *FlashcardRepository) UpdateScheduling(ctx context.Context, card *models.Flashcard) error {
	query := `
		UPDATE flashcards SET
			interval_days = $1,
			ease_factor = $2,
			repetitions = $3,
			next_review_at = $4,
			state = $5,
			updated_at = $6
		WHERE id = $7
	`
	result, err := DB.ExecContext(ctx, query,
		card.IntervalDays,
		card.EaseFactor,
		card.Repetitions,
		card.NextReviewAt,
		card.State,
		card.UpdatedAt,
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update flashcard scheduling: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrCardNotFound, card.ID)
	}
	return nil
}

// UpdateContent modifies a card's content fields
func (r *FlashcardRepository) UpdateContent(ctx context.Context, card *models.Flashcard) error {
	query := `
		UPDATE flashcards SET
			front_content = $1,
			back_content = $2,
			hint = $3,
			mnemonic = $4,
			updated_at = $5
		WHERE id = $6
	`
	result, err := DB.ExecContext(ctx, query,
		card.FrontContent,
		card.BackContent,
		card.Hint,
		card.Mnemonic,
		time.Now(),
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update flashcard: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrCardNotFound, card.ID)
	}
	return nil
}

// SetState moves a card between the due and suspended lifecycle states
func (r *FlashcardRepository) SetState(ctx context.Context, id uuid.UUID, state models.CardState) error {
	result, err := DB.ExecContext(ctx,
		"UPDATE flashcards SET state = $1, updated_at = $2 WHERE id = $3",
		state, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set flashcard state: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	return nil
}

// Delete removes a flashcard
func (r *FlashcardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := DB.ExecContext(ctx, "DELETE FROM flashcards WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete flashcard: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	return nil
}
