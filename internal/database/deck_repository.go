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

// ErrDeckNotFound is returned when a deck lookup matches no row.
var ErrDeckNotFound = errors.New("deck not found")

// DeckRepository handles database operations for decks
type DeckRepository struct{}

// NewDeckRepository creates a new repository instance
func NewDeckRepository() *DeckRepository {
	return &DeckRepository{}
}

// Create inserts a new deck
func (r *DeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	return r.create(ctx, DB, deck)
}

// CreateTx inserts a new deck within an existing transaction
func (r *DeckRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, deck *models.Deck) error {
	return r.create(ctx, tx, deck)
}

func (r *DeckRepository) create(ctx context.Context, ex sqlx.ExtContext, deck *models.Deck) error {
	query := `
		INSERT INTO decks (
			id, user_id, name, description, is_public,
			cards_per_session, review_limit, new_limit,
			is_custom_study, source_deck_id, study_horizon_days,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := ex.ExecContext(ctx, query,
		deck.ID,
		deck.UserID,
		deck.Name,
		deck.Description,
		deck.IsPublic,
		deck.CardsPerSession,
		deck.ReviewLimit,
		deck.NewLimit,
		deck.IsCustomStudy,
		deck.SourceDeckID,
		deck.StudyHorizonDays,
		deck.CreatedAt,
		deck.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}
	return nil
}

// GetByID returns a deck by ID
func (r *DeckRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Deck, error) {
	var deck models.Deck
	err := DB.GetContext(ctx, &deck, "SELECT * FROM decks WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDeckNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck by ID: %w", err)
	}
	return &deck, nil
}

// GetByUser returns all decks owned by a user
func (r *DeckRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]models.Deck, error) {
	var decks []models.Deck
	err := DB.SelectContext(ctx, &decks, "SELECT * FROM decks WHERE user_id = $1 ORDER BY created_at", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get decks for user: %w", err)
	}
	return decks, nil
}

// GetAll returns every deck
func (r *DeckRepository) GetAll(ctx context.Context) ([]models.Deck, error) {
	var decks []models.Deck
	err := DB.SelectContext(ctx, &decks, "SELECT * FROM decks ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to get decks: %w", err)
	}
	return decks, nil
}

// GetExpiredCustomStudy returns custom-study decks whose study horizon has
// fully elapsed as of now. Decks without a configured horizon are treated
// as one-day decks.
func (r *DeckRepository) GetExpiredCustomStudy(ctx context.Context, now time.Time) ([]models.Deck, error) {
	var decks []models.Deck
	err := DB.SelectContext(ctx, &decks, "SELECT * FROM decks WHERE is_custom_study = true")
	if err != nil {
		return nil, fmt.Errorf("failed to get custom study decks: %w", err)
	}

	var expired []models.Deck
	for _, d := range decks {
		horizon := d.StudyHorizonDays
		if horizon <= 0 {
			horizon = 1
		}
		if d.CreatedAt.AddDate(0, 0, horizon).Before(now) {
			expired = append(expired, d)
		}
	}
	return expired, nil
}

// Update modifies an existing deck's settings
func (r *DeckRepository) Update(ctx context.Context, deck *models.Deck) error {
	query := `
		UPDATE decks SET
			name = $1,
			description = $2,
			is_public = $3,
			cards_per_session = $4,
			review_limit = $5,
			new_limit = $6,
			study_horizon_days = $7,
			updated_at = $8
		WHERE id = $9
	`
	result, err := DB.ExecContext(ctx, query,
		deck.Name,
		deck.Description,
		deck.IsPublic,
		deck.CardsPerSession,
		deck.ReviewLimit,
		deck.NewLimit,
		deck.StudyHorizonDays,
		time.Now(),
		deck.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update deck: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrDeckNotFound, deck.ID)
	}
	return nil
}

// Delete removes a deck and, through the foreign key cascade, its cards
func (r *DeckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := DB.ExecContext(ctx, "DELETE FROM decks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrDeckNotFound, id)
	}
	return nil
}
