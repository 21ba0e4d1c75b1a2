package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/example/deckbot/internal/database"
)

// Scheduler manages the periodic maintenance tasks for the application:
// purging expired custom-study decks and logging a digest of due counts.
type Scheduler struct {
	scheduler *gocron.Scheduler
	decks     *database.DeckRepository
	cards     *database.FlashcardRepository
	log       zerolog.Logger
}

// New creates a new scheduler instance
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		decks:     database.NewDeckRepository(),
		cards:     database.NewFlashcardRepository(),
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Custom study decks are disposable: sweep the expired ones hourly
	s.scheduler.Every(1).Hour().Do(s.purgeExpiredCustomStudy)

	// Daily digest of how much work is waiting in each deck
	s.scheduler.Every(1).Day().At("06:00").Do(s.logDueDigest)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// purgeExpiredCustomStudy deletes custom-study decks whose study horizon
// has elapsed, along with their cloned cards
func (s *Scheduler) purgeExpiredCustomStudy() {
	ctx := context.Background()

	expired, err := s.decks.GetExpiredCustomStudy(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list expired custom study decks")
		return
	}

	for _, deck := range expired {
		if err := s.decks.Delete(ctx, deck.ID); err != nil {
			s.log.Error().Err(err).Str("deck_id", deck.ID.String()).Msg("failed to purge custom study deck")
			continue
		}
		s.log.Info().
			Str("deck_id", deck.ID.String()).
			Time("created_at", deck.CreatedAt).
			Msg("purged expired custom study deck")
	}
}

// logDueDigest logs the number of cards due today in every deck
func (s *Scheduler) logDueDigest() {
	ctx := context.Background()
	now := time.Now()

	decks, err := s.decks.GetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list decks for digest")
		return
	}

	for _, deck := range decks {
		due, err := s.cards.GetDueByDeck(ctx, deck.ID, now.AddDate(0, 0, deck.Lookahead()))
		if err != nil {
			s.log.Error().Err(err).Str("deck_id", deck.ID.String()).Msg("failed to count due cards")
			continue
		}
		if len(due) == 0 {
			continue
		}
		s.log.Info().
			Str("deck_id", deck.ID.String()).
			Str("name", deck.Name).
			Int("due", len(due)).
			Msg("cards waiting for review")
	}
}

// RunManualCheck forces an immediate maintenance pass, used at startup
func (s *Scheduler) RunManualCheck() {
	s.purgeExpiredCustomStudy()
	s.logDueDigest()
}
