package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/deckbot/pkg/models"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, Connect())
	t.Cleanup(func() { Close() })
}

func seedDeck(t *testing.T, deck *models.Deck) *models.Deck {
	t.Helper()
	if deck.ID == uuid.Nil {
		deck.ID = uuid.New()
	}
	if deck.UserID == uuid.Nil {
		deck.UserID = uuid.New()
	}
	if deck.Name == "" {
		deck.Name = "deck"
	}
	if deck.CreatedAt.IsZero() {
		deck.CreatedAt = time.Now()
		deck.UpdatedAt = deck.CreatedAt
	}
	require.NoError(t, NewDeckRepository().Create(context.Background(), deck))
	return deck
}

func TestDeckRepository_GetByID_NotFound(t *testing.T) {
	setupTestDB(t)

	_, err := NewDeckRepository().GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestDeckRepository_RoundTrip(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	source := seedDeck(t, &models.Deck{Name: "source"})
	deck := seedDeck(t, &models.Deck{
		Name:             "snapshot",
		IsCustomStudy:    true,
		SourceDeckID:     &source.ID,
		StudyHorizonDays: 3,
		CardsPerSession:  7,
		ReviewLimit:      7,
		NewLimit:         7,
	})

	got, err := NewDeckRepository().GetByID(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, "snapshot", got.Name)
	assert.True(t, got.IsCustomStudy)
	require.NotNil(t, got.SourceDeckID)
	assert.Equal(t, source.ID, *got.SourceDeckID)
	assert.Equal(t, 3, got.StudyHorizonDays)
}

func TestDeckRepository_GetExpiredCustomStudy(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	ordinary := seedDeck(t, &models.Deck{Name: "ordinary", CreatedAt: now.AddDate(0, 0, -30), UpdatedAt: now})
	fresh := seedDeck(t, &models.Deck{Name: "fresh", IsCustomStudy: true, StudyHorizonDays: 3, CreatedAt: now.AddDate(0, 0, -1), UpdatedAt: now})
	seedDeck(t, &models.Deck{Name: "stale", IsCustomStudy: true, StudyHorizonDays: 3, CreatedAt: now.AddDate(0, 0, -10), UpdatedAt: now})
	// No horizon configured: treated as a one-day deck
	seedDeck(t, &models.Deck{Name: "unset", IsCustomStudy: true, CreatedAt: now.AddDate(0, 0, -2), UpdatedAt: now})

	expired, err := NewDeckRepository().GetExpiredCustomStudy(ctx, now)
	require.NoError(t, err)

	var names []string
	for _, d := range expired {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{"stale", "unset"}, names)
	assert.NotContains(t, names, ordinary.Name, "ordinary decks are never purged")
	assert.NotContains(t, names, fresh.Name)
}

func TestFlashcardRepository_DeckCascade(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	deck := seedDeck(t, &models.Deck{Name: "doomed"})
	card := models.NewFlashcard(deck.ID, "front", "back", now)
	cardRepo := NewFlashcardRepository()
	require.NoError(t, cardRepo.Create(ctx, card))

	require.NoError(t, NewDeckRepository().Delete(ctx, deck.ID))

	_, err := cardRepo.GetByID(ctx, card.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCardNotFound, "cards go with their deck")
}

func TestFlashcardRepository_GetDueByDeck(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	deck := seedDeck(t, &models.Deck{Name: "deck"})
	cardRepo := NewFlashcardRepository()

	mkCard := func(front string, nextReviewAt *time.Time, state models.CardState) {
		card := models.NewFlashcard(deck.ID, front, "back", now)
		card.NextReviewAt = nextReviewAt
		card.State = state
		require.NoError(t, cardRepo.Create(ctx, card))
	}

	overdueAt := now.AddDate(0, 0, -2)
	soonAt := now.Add(2 * time.Hour)
	farAt := now.AddDate(0, 0, 14)

	mkCard("never-scheduled", nil, models.CardStateNew)
	mkCard("overdue", &overdueAt, models.CardStateDue)
	mkCard("soon", &soonAt, models.CardStateDue)
	mkCard("far", &farAt, models.CardStateDue)
	mkCard("suspended", &overdueAt, models.CardStateSuspended)

	due, err := cardRepo.GetDueByDeck(ctx, deck.ID, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, due, 3)
	assert.Equal(t, "never-scheduled", due[0].FrontContent, "null schedules sort first")
	assert.Equal(t, "overdue", due[1].FrontContent)
	assert.Equal(t, "soon", due[2].FrontContent)
}

func TestReviewLogRepository_AppendAndCount(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	deck := seedDeck(t, &models.Deck{Name: "deck"})
	card := models.NewFlashcard(deck.ID, "front", "back", now)
	require.NoError(t, NewFlashcardRepository().Create(ctx, card))

	logRepo := NewReviewLogRepository()
	userID := uuid.New()
	for i := 0; i < 3; i++ {
		entry := &models.ReviewLog{
			ID:          uuid.New(),
			UserID:      userID,
			FlashcardID: card.ID,
			Rating:      3,
			Quality:     4,
			TimeTakenMs: 1500,
			ReviewedAt:  now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, logRepo.Append(ctx, entry))
	}

	history, err := logRepo.GetByFlashcard(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i := 1; i < len(history); i++ {
		assert.True(t, !history[i].ReviewedAt.Before(history[i-1].ReviewedAt), "ledger reads back oldest first")
	}

	count, err := logRepo.CountSince(ctx, userID, now.Add(90*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
