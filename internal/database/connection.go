package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. The backend is chosen
// with DB_TYPE: "postgres" connects to DATABASE_URL, anything else opens a
// SQLite file under the data directory (or DATABASE_PATH when set).
func Connect() error {
	dbType := os.Getenv("DB_TYPE")

	if dbType == "postgres" {
		db, err := sqlx.Connect("postgres", os.Getenv("DATABASE_URL"))
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		DB = db
		return initializeSchema()
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		dbPath = filepath.Join(dataDir, "deckbot.db")
	}

	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Create decks table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS decks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT DEFAULT '',
			is_public BOOLEAN DEFAULT false,
			cards_per_session INTEGER DEFAULT 20,
			review_limit INTEGER DEFAULT 20,
			new_limit INTEGER DEFAULT 10,
			is_custom_study BOOLEAN DEFAULT false,
			source_deck_id TEXT,
			study_horizon_days INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create decks table: %w", err)
	}

	// Create flashcards table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS flashcards (
			id TEXT PRIMARY KEY,
			deck_id TEXT NOT NULL,
			front_content TEXT NOT NULL,
			back_content TEXT NOT NULL,
			hint TEXT DEFAULT '',
			mnemonic TEXT DEFAULT '',
			interval_days INTEGER DEFAULT 0,
			ease_factor REAL DEFAULT 2.5,
			repetitions INTEGER DEFAULT 0,
			next_review_at TIMESTAMP,
			state TEXT DEFAULT 'new',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (deck_id) REFERENCES decks(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create flashcards table: %w", err)
	}

	// Create review_logs table. Rows are append-only: the application never
	// updates or deletes them.
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS review_logs (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			flashcard_id TEXT NOT NULL,
			rating INTEGER NOT NULL,
			quality INTEGER NOT NULL,
			time_taken_ms INTEGER DEFAULT 0,
			reviewed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (flashcard_id) REFERENCES flashcards(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create review_logs table: %w", err)
	}

	return nil
}
