package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var (
		dbPath     string
		configPath string
		quantity   int
	)

	cmd := &cobra.Command{
		Use:   "import <cards.json>",
		Short: "Import Scryfall card data into the local corpus",
		Long: `Reads a JSON array of Scryfall card objects, normalizes them and
upserts them into the corpus database. With --quantity the imported cards
are also added to the collection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(configPath)
			if err != nil {
				return err
			}

			imported, err := loadCardFile(args[0])
			if err != nil {
				return err
			}
			if len(imported) == 0 {
				return fmt.Errorf("no cards in %s", args[0])
			}

			repo, closeFn, err := openRepository(settings, dbPath)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := repo.SaveCards(cmd.Context(), imported); err != nil {
				return err
			}

			if quantity > 0 {
				for i := range imported {
					card := imported[i]
					err := repo.SetQuantity(cmd.Context(), card.Name, card.SetCode, card.CollectorNumber, quantity)
					if err != nil {
						return fmt.Errorf("failed to set quantity for %q: %w", card.Name, err)
					}
				}
			}

			fmt.Printf("Imported %d cards\n", len(imported))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db-path", "", "Database path (default: ~/.desktopmtg/cards.db)")
	cmd.Flags().StringVar(&configPath, "config", "", "Settings file path")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Also record this owned quantity for each card")

	return cmd
}
