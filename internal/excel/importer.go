package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/example/deckbot/internal/database"
	"github.com/example/deckbot/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath       string // Path to the Excel or CSV file
	FrontColumn    string // Column with the card front
	BackColumn     string // Column with the card back
	HintColumn     string // Column with the optional hint
	MnemonicColumn string // Column with the optional mnemonic
	SheetName      string // Name of the sheet to import
	StartRow       int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		FrontColumn:    "A",
		BackColumn:     "B",
		HintColumn:     "C",
		MnemonicColumn: "D",
		SheetName:      "Sheet1",
		StartRow:       2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportCards imports flashcards from an Excel or CSV file into a deck.
// Rows missing a front or back are skipped; rows whose front already exists
// in the deck are counted as duplicates and skipped too.
func ImportCards(ctx context.Context, deckID uuid.UUID, config ImportConfig) (*ImportResult, error) {
	// The target deck must exist before anything is read
	deckRepo := database.NewDeckRepository()
	if _, err := deckRepo.GetByID(ctx, deckID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(ctx, deckID, config)
	}
	return importFromExcel(ctx, deckID, config)
}

// importFromExcel imports flashcards from an Excel file
func importFromExcel(ctx context.Context, deckID uuid.UUID, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	cardRepo := database.NewFlashcardRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	existing, err := existingFronts(ctx, cardRepo, deckID)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		result.TotalProcessed++

		if err := processRow(ctx, row, config, deckID, existing, cardRepo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports flashcards from a CSV file
func importFromCSV(ctx context.Context, deckID uuid.UUID, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	cardRepo := database.NewFlashcardRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	existing, err := existingFronts(ctx, cardRepo, deckID)
	if err != nil {
		return nil, err
	}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		rowNum++

		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++

		if err := processRow(ctx, row, config, deckID, existing, cardRepo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// existingFronts maps the lowercased fronts already in the deck, so reruns
// of the same file don't create duplicates
func existingFronts(ctx context.Context, cardRepo *database.FlashcardRepository, deckID uuid.UUID) (map[string]bool, error) {
	cards, err := cardRepo.GetByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	fronts := make(map[string]bool, len(cards))
	for _, c := range cards {
		fronts[strings.ToLower(strings.TrimSpace(c.FrontContent))] = true
	}
	return fronts, nil
}

// processRow turns one spreadsheet row into a flashcard
func processRow(ctx context.Context, row []string, config ImportConfig, deckID uuid.UUID,
	existing map[string]bool, cardRepo *database.FlashcardRepository, result *ImportResult) error {
	var front, back, hint, mnemonic string

	// Check bounds for each column
	if colIdx := columnToIndex(config.FrontColumn); colIdx < len(row) {
		front = strings.TrimSpace(row[colIdx])
	}
	if colIdx := columnToIndex(config.BackColumn); colIdx < len(row) {
		back = strings.TrimSpace(row[colIdx])
	}
	if colIdx := columnToIndex(config.HintColumn); colIdx < len(row) {
		hint = strings.TrimSpace(row[colIdx])
	}
	if colIdx := columnToIndex(config.MnemonicColumn); colIdx < len(row) {
		mnemonic = strings.TrimSpace(row[colIdx])
	}

	if front == "" || back == "" {
		result.Skipped++
		return nil
	}

	if existing[strings.ToLower(front)] {
		result.Skipped++
		return nil
	}

	card := models.NewFlashcard(deckID, front, back, time.Now())
	card.Hint = hint
	card.Mnemonic = mnemonic

	if err := cardRepo.Create(ctx, card); err != nil {
		return err
	}

	existing[strings.ToLower(front)] = true
	result.Created++
	return nil
}

// columnToIndex converts a column letter (A, B, ... Z, AA, ...) to a
// zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for _, ch := range column {
		index = index*26 + int(ch-'A') + 1
	}
	return index - 1
}
