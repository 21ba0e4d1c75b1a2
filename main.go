package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/example/deckbot/internal/database"
	"github.com/example/deckbot/internal/excel"
	"github.com/example/deckbot/internal/scheduler"
)

func main() {
	importFile := flag.String("import", "", "Path to an Excel or CSV file to import into a deck")
	importDeck := flag.String("deck", "", "Target deck ID for the import")
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if os.Getenv("LOG_FORMAT") == "json" {
		log = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	// One-shot import mode
	if *importFile != "" {
		deckID, err := uuid.Parse(*importDeck)
		if err != nil {
			log.Fatal().Err(err).Msg("a valid -deck ID is required for import")
		}

		config := excel.DefaultImportConfig()
		config.FilePath = *importFile

		result, err := excel.ImportCards(context.Background(), deckID, config)
		if err != nil {
			log.Fatal().Err(err).Msg("import failed")
		}

		log.Info().
			Int("processed", result.TotalProcessed).
			Int("created", result.Created).
			Int("skipped", result.Skipped).
			Int("errors", len(result.Errors)).
			Msg("import finished")
		for _, e := range result.Errors {
			log.Warn().Msg(e)
		}
		return
	}

	// Daemon mode: run the maintenance scheduler until interrupted
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	log.Info().Msg("deckbot started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutting down")
}
