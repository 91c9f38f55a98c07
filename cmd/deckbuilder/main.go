// Package main provides the deckbuilder CLI: corpus imports, synergy
// recommendations and greedy commander deck builds from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/desktopmtg/desktopmtg/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "deckbuilder",
		Short: "Commander deck building and card recommendations",
		Long: `Deckbuilder scores card synergy against a deck, recommends additions,
and assembles complete commander decks from a card pool.`,
		Version: version.GetVersion(),
	}

	rootCmd.AddCommand(
		newBuildCmd(),
		newRecommendCmd(),
		newImportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
