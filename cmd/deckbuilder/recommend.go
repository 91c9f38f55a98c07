package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/desktopmtg/desktopmtg/internal/config"
	"github.com/desktopmtg/desktopmtg/internal/mtg/recommendations"
	"github.com/desktopmtg/desktopmtg/internal/search"
)

func newRecommendCmd() *cobra.Command {
	var (
		deckPath      string
		commanderPath string
		listPath      string
		dbPath        string
		configPath    string
		format        string
		strategy      string
		limit         int
		jsonOut       bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend cards that synergize with a deck",
		Long: `Derives a search query from the deck, fetches candidates from the
search service and ranks them by synergy with the deck's themes, curve
and tribal identity.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(configPath)
			if err != nil {
				return err
			}
			if strategy != "" {
				settings.Scoring.Strategy = strategy
			}

			repo, closeFn, err := openRepository(settings, dbPath)
			if err != nil {
				return err
			}
			defer closeFn()

			deck := &recommendations.Deck{}
			if listPath != "" {
				deck, err = loadDeckList(cmd.Context(), listPath, repo)
				if err != nil {
					return err
				}
			} else {
				if commanderPath != "" {
					commanders, err := loadCardFile(commanderPath)
					if err != nil {
						return err
					}
					deck.Commanders = commanders
				}
				if deckPath != "" {
					mainboard, err := loadCardFile(deckPath)
					if err != nil {
						return err
					}
					deck.Mainboard = mainboard
				}
			}

			searcher, err := newSearcher(settings)
			if err != nil {
				return err
			}

			orchestrator := recommendations.NewOrchestrator(searcher, repo, settings, nil, log.Default())
			result := orchestrator.Recommend(cmd.Context(), deck, format, recommendations.RecommendOptions{
				Limit: limit,
			})

			if jsonOut {
				return printJSON(result)
			}

			fmt.Printf("Query: %s\n", result.Query)
			if result.Status != recommendations.StatusOK {
				fmt.Printf("Status: %s\n", result.Status)
			}
			fmt.Println()
			for i, card := range result.Cards {
				fmt.Printf("%2d. %-40s %.2f\n", i+1, card.Name, card.SynergyScore)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&deckPath, "deck", "", "JSON file of Scryfall cards in the mainboard")
	cmd.Flags().StringVar(&commanderPath, "commanders", "", "JSON file of Scryfall commander cards")
	cmd.Flags().StringVar(&listPath, "list", "", "Text deck list with an optional Commander section (overrides --deck/--commanders)")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "Database path (default: ~/.desktopmtg/cards.db)")
	cmd.Flags().StringVar(&configPath, "config", "", "Settings file path")
	cmd.Flags().StringVar(&format, "format", "commander", "Target format")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Score blending strategy (default: from settings)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum recommendations")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit recommendations as JSON")

	return cmd
}

func newSearcher(settings *config.Settings) (*search.CachedClient, error) {
	timeout, err := settings.GetSearchTimeout()
	if err != nil {
		return nil, err
	}
	ttl, err := settings.GetCacheTTL()
	if err != nil {
		return nil, err
	}

	client := search.NewClient(search.ClientOptions{
		BaseURL:    settings.Search.BaseURL,
		RateLimit:  rate.Limit(settings.Search.RateLimit),
		Timeout:    timeout,
		MaxRetries: settings.Search.MaxRetries,
	})
	return search.NewCachedClient(client, ttl, settings.Search.CacheSize), nil
}
