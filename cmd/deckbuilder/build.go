package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
	"github.com/desktopmtg/desktopmtg/internal/mtg/recommendations"
)

func newBuildCmd() *cobra.Command {
	var (
		poolPath   string
		listPath   string
		dbPath     string
		configPath string
		trials     int
		seed       int64
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Assemble a commander deck from a card pool",
		Long: `Picks a legal commander from the pool, fills ramp, draw, removal and
lands to category quotas, then pads to 99 cards with the highest-synergy
remainder. Runs several randomized trials and keeps the best deck.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(configPath)
			if err != nil {
				return err
			}

			var pool []cards.Card
			switch {
			case listPath != "":
				repo, closeFn, err := openRepository(settings, dbPath)
				if err != nil {
					return err
				}
				defer closeFn()
				deck, err := loadDeckList(cmd.Context(), listPath, repo)
				if err != nil {
					return err
				}
				pool = deck.AllCards()
			case poolPath != "":
				pool, err = loadCardFile(poolPath)
				if err != nil {
					return err
				}
			default:
				repo, closeFn, err := openRepository(settings, dbPath)
				if err != nil {
					return err
				}
				defer closeFn()
				pool, err = repo.GetCollectedCards(cmd.Context())
				if err != nil {
					return err
				}
			}
			if len(pool) == 0 {
				return fmt.Errorf("card pool is empty")
			}

			if trials <= 0 {
				trials = settings.App.BuildTrials
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			rng := rand.New(rand.NewSource(seed))

			builder := recommendations.NewBuilder(settings, rng, nil)
			result := builder.BuildGreedyCommanderDeck(pool, trials)

			if jsonOut {
				return printJSON(result)
			}

			printDeck(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&poolPath, "pool", "", "JSON file of Scryfall cards to build from (default: collection)")
	cmd.Flags().StringVar(&listPath, "list", "", "Text deck list to build from (overrides --pool)")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "Database path (default: ~/.desktopmtg/cards.db)")
	cmd.Flags().StringVar(&configPath, "config", "", "Settings file path")
	cmd.Flags().IntVar(&trials, "trials", 0, "Randomized build attempts (default: from settings)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for reproducible builds (0 = time-based)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the deck as JSON")

	return cmd
}

func printDeck(result recommendations.BuildResult) {
	for _, commander := range result.Deck.Commanders {
		fmt.Printf("Commander: %s\n", commander.Name)
	}
	fmt.Printf("Synergy: %.2f\n\n", result.Synergy)

	byCategory := map[string][]string{}
	for _, card := range result.Deck.Mainboard {
		category := recommendations.ClassifyCard(card)
		byCategory[category] = append(byCategory[category], card.Name)
	}

	for _, category := range []string{
		recommendations.CategoryRamp,
		recommendations.CategoryDraw,
		recommendations.CategoryRemoval,
		recommendations.CategoryLand,
		recommendations.CategoryOther,
	} {
		names := byCategory[category]
		if len(names) == 0 {
			continue
		}
		fmt.Printf("%s (%d):\n", category, len(names))
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println()
	}
}
