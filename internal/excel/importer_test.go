package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/deckbot/internal/database"
	"github.com/example/deckbot/pkg/models"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, database.Connect())
	t.Cleanup(func() { database.Close() })
}

func createImportDeck(t *testing.T) *models.Deck {
	t.Helper()
	now := time.Now()
	deck := &models.Deck{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		Name:            "import target",
		CardsPerSession: models.DefaultCardsPerSession,
		ReviewLimit:     models.DefaultReviewLimit,
		NewLimit:        models.DefaultNewLimit,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, database.NewDeckRepository().Create(context.Background(), deck))
	return deck
}

func TestImportCards_CSV(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	deck := createImportDeck(t)

	csvPath := filepath.Join(t.TempDir(), "cards.csv")
	content := "front,back,hint,mnemonic\n" +
		"la maison,the house,building,think mansion\n" +
		"le chien,the dog,,\n" +
		",missing front,,\n" +
		"le chat,,\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0644))

	config := DefaultImportConfig()
	config.FilePath = csvPath

	result, err := ImportCards(ctx, deck.ID, config)
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 2, result.Skipped, "rows without both front and back are skipped")
	assert.Empty(t, result.Errors)

	cards, err := database.NewFlashcardRepository().GetByDeck(ctx, deck.ID)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	for _, c := range cards {
		assert.Equal(t, models.CardStateNew, c.State)
		assert.Equal(t, 0, c.Repetitions)
		assert.Equal(t, 2.5, c.EaseFactor)
		require.NotNil(t, c.NextReviewAt, "imported cards are immediately eligible")
	}
}

func TestImportCards_RerunSkipsDuplicates(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	deck := createImportDeck(t)

	csvPath := filepath.Join(t.TempDir(), "cards.csv")
	content := "front,back\nbonjour,hello\nmerci,thank you\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0644))

	config := DefaultImportConfig()
	config.FilePath = csvPath

	first, err := ImportCards(ctx, deck.ID, config)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := ImportCards(ctx, deck.ID, config)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Skipped)
}

func TestImportCards_Excel(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	deck := createImportDeck(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"Front", "Back", "Hint", "Mnemonic"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]string{"der Hund", "the dog", "animal", ""}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]string{"die Katze", "the cat", "", "purrs"}))

	xlsxPath := filepath.Join(t.TempDir(), "cards.xlsx")
	require.NoError(t, f.SaveAs(xlsxPath))

	config := DefaultImportConfig()
	config.FilePath = xlsxPath

	result, err := ImportCards(ctx, deck.ID, config)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)

	cards, err := database.NewFlashcardRepository().GetByDeck(ctx, deck.ID)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "der Hund", cards[0].FrontContent)
	assert.Equal(t, "animal", cards[0].Hint)
	assert.Equal(t, "purrs", cards[1].Mnemonic)
}

func TestImportCards_DeckNotFound(t *testing.T) {
	setupTestDB(t)

	config := DefaultImportConfig()
	config.FilePath = "does-not-matter.csv"

	_, err := ImportCards(context.Background(), uuid.New(), config)
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrDeckNotFound)
}

func TestColumnToIndex(t *testing.T) {
	assert.Equal(t, 0, columnToIndex("A"))
	assert.Equal(t, 1, columnToIndex("B"))
	assert.Equal(t, 25, columnToIndex("Z"))
	assert.Equal(t, 26, columnToIndex("AA"))
}
