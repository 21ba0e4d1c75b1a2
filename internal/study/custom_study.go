package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/deckbot/internal/database"
	"github.com/example/deckbot/pkg/models"
)

// ErrNoDueCards is returned when a custom study request matches no cards.
// It is distinct from database.ErrDeckNotFound so callers can report
// "nothing due" instead of a generic not-found.
var ErrNoDueCards = errors.New("no cards due within the requested horizon")

// CreateCustomStudy builds a disposable snapshot deck from the cards of a
// source deck that are due within horizonDays of now.
//
// Each selected card's content is cloned into a fresh card under the new
// deck with its scheduling state reset to "freshly due"; the clones carry
// no link to the originals' history. The deck and all clones are created
// in a single transaction, so a failure part-way leaves nothing behind.
func (s *Service) CreateCustomStudy(ctx context.Context, sourceDeckID, ownerID uuid.UUID, horizonDays int, now time.Time) (*models.Deck, []models.Flashcard, error) {
	source, err := s.decks.GetByID(ctx, sourceDeckID)
	if err != nil {
		return nil, nil, err
	}

	if horizonDays <= 0 {
		horizonDays = 1
	}
	endDate := now.AddDate(0, 0, horizonDays)

	eligible, err := s.cards.GetDueByDeck(ctx, sourceDeckID, endDate)
	if err != nil {
		return nil, nil, err
	}
	if len(eligible) == 0 {
		return nil, nil, fmt.Errorf("%w: deck %s, %d day horizon", ErrNoDueCards, sourceDeckID, horizonDays)
	}

	deck := &models.Deck{
		ID:               uuid.New(),
		UserID:           ownerID,
		Name:             fmt.Sprintf("%s (custom study)", source.Name),
		Description:      source.Description,
		CardsPerSession:  len(eligible),
		ReviewLimit:      len(eligible),
		NewLimit:         len(eligible),
		IsCustomStudy:    true,
		SourceDeckID:     &source.ID,
		StudyHorizonDays: horizonDays,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	clones := make([]models.Flashcard, 0, len(eligible))
	for _, src := range eligible {
		next := now
		clones = append(clones, models.Flashcard{
			ID:           uuid.New(),
			DeckID:       deck.ID,
			FrontContent: src.FrontContent,
			BackContent:  src.BackContent,
			Hint:         src.Hint,
			Mnemonic:     src.Mnemonic,
			IntervalDays: 1,
			EaseFactor:   2.5,
			Repetitions:  0,
			NextReviewAt: &next,
			State:        models.CardStateDue,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	tx, err := database.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.decks.CreateTx(ctx, tx, deck); err != nil {
		return nil, nil, err
	}
	if err := s.cards.CreateBatchTx(ctx, tx, clones); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit custom study deck: %w", err)
	}

	s.log.Info().
		Str("deck_id", deck.ID.String()).
		Str("source_deck_id", sourceDeckID.String()).
		Int("cards", len(clones)).
		Int("horizon_days", horizonDays).
		Msg("custom study deck created")

	return deck, clones, nil
}
