package study

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/deckbot/internal/database"
	"github.com/example/deckbot/internal/spaced_repetition"
	"github.com/example/deckbot/pkg/models"
)

// Service composes the scheduling algorithm with the persistence layer and
// exposes the review and session operations callers build on.
type Service struct {
	sm2   *spaced_repetition.SM2
	decks *database.DeckRepository
	cards *database.FlashcardRepository
	logs  *database.ReviewLogRepository
	log   zerolog.Logger
}

// New creates a study service with the standard SM-2 parameters
func New(log zerolog.Logger) *Service {
	return &Service{
		sm2:   spaced_repetition.NewSM2(),
		decks: database.NewDeckRepository(),
		cards: database.NewFlashcardRepository(),
		logs:  database.NewReviewLogRepository(),
		log:   log.With().Str("component", "study").Logger(),
	}
}

// SubmitReview records one review of a card and reschedules it.
//
// The review log entry is appended before the scheduling state is written:
// the ledger must record every submitted rating, even when a concurrent
// review of the same card ends up overwriting this one's scheduling result.
func (s *Service) SubmitReview(ctx context.Context, cardID, userID uuid.UUID, rating, timeTakenMs int, now time.Time) (*models.Flashcard, error) {
	quality, err := spaced_repetition.MapRating(rating)
	if err != nil {
		return nil, err
	}

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	updated, err := s.sm2.Schedule(*card, quality, now)
	if err != nil {
		return nil, err
	}

	entry := &models.ReviewLog{
		ID:          uuid.New(),
		UserID:      userID,
		FlashcardID: cardID,
		Rating:      rating,
		Quality:     int(quality),
		TimeTakenMs: timeTakenMs,
		ReviewedAt:  now,
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.cards.UpdateScheduling(ctx, &updated); err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("card_id", cardID.String()).
		Int("rating", rating).
		Int("quality", int(quality)).
		Int("interval_days", updated.IntervalDays).
		Float64("ease_factor", updated.EaseFactor).
		Time("next_review_at", *updated.NextReviewAt).
		Msg("review recorded")

	return &updated, nil
}

// GetDueSet returns the ordered list of cards due for a session on the
// given deck. Review-tier cards come first, then learn-tier cards, each
// capped by the deck's configured limits. A positive overrideLimit
// truncates the final ordered list.
func (s *Service) GetDueSet(ctx context.Context, deckID uuid.UUID, now time.Time, overrideLimit int) ([]models.Flashcard, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}

	cards, err := s.cards.GetByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	reviewLimit := deck.ReviewLimit
	if reviewLimit <= 0 {
		reviewLimit = models.DefaultReviewLimit
	}
	newLimit := deck.NewLimit
	if newLimit <= 0 {
		newLimit = models.DefaultNewLimit
	}

	due := spaced_repetition.SelectDue(cards, reviewLimit, newLimit, deck.Lookahead(), now)

	if overrideLimit > 0 && len(due) > overrideLimit {
		due = due[:overrideLimit]
	}

	return due, nil
}

// GetReviewHistory returns the full review ledger for a card, oldest first
func (s *Service) GetReviewHistory(ctx context.Context, cardID uuid.UUID) ([]models.ReviewLog, error) {
	if _, err := s.cards.GetByID(ctx, cardID); err != nil {
		return nil, err
	}
	return s.logs.GetByFlashcard(ctx, cardID)
}
