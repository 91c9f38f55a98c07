package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desktopmtg/desktopmtg/internal/config"
	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
	"github.com/desktopmtg/desktopmtg/internal/mtg/decklist"
	"github.com/desktopmtg/desktopmtg/internal/mtg/recommendations"
	"github.com/desktopmtg/desktopmtg/internal/storage"
	"github.com/desktopmtg/desktopmtg/internal/storage/repository"
)

// loadSettings reads settings from path, or the default location when path
// is empty.
func loadSettings(path string) (*config.Settings, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// loadCardFile reads a JSON array of Scryfall card objects and normalizes
// them into the canonical card model.
func loadCardFile(path string) ([]cards.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card file: %w", err)
	}

	var raw []cards.ScryfallCard
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse card file %s: %w", path, err)
	}

	result := make([]cards.Card, 0, len(raw))
	for i := range raw {
		result = append(result, raw[i].Normalize())
	}
	return result, nil
}

// openRepository opens the corpus database and returns the card repository
// along with a close function.
func openRepository(settings *config.Settings, dbPath string) (repository.CardRepository, func(), error) {
	if dbPath == "" {
		dbPath = settings.Database.Path
	}
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, err
		}
		dbPath = filepath.Join(home, ".desktopmtg", "cards.db")
	}

	dbConfig := storage.DefaultConfig(dbPath)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	closeFn := func() {
		_ = db.Close()
	}
	return repository.NewCardRepository(db.Conn()), closeFn, nil
}

// loadDeckList parses a text deck list file and resolves its entries
// against the card corpus. Resolution warnings go to stderr.
func loadDeckList(ctx context.Context, path string, corpus recommendations.CardCorpus) (*recommendations.Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck list: %w", err)
	}

	list, err := decklist.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse deck list %s: %w", path, err)
	}
	for _, w := range list.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	deck, warnings, err := decklist.Resolve(ctx, list, corpus)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return deck, nil
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
