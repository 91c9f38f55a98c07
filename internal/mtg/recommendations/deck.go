// Package recommendations implements the card synergy scoring engine and the
// greedy commander deck builder. All scoring is pure computation over
// in-memory card slices; the search and corpus collaborators are injected
// interfaces.
package recommendations

import (
	"strings"

	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

// Deck is a deck under construction or analysis. Mainboard is flattened with
// one entry per physical copy. Scorers take a snapshot and never mutate it.
type Deck struct {
	Commanders []cards.Card `json:"commanders"`
	Mainboard  []cards.Card `json:"mainboard"`
	Sideboard  []cards.Card `json:"sideboard,omitempty"`
}

// AllCards returns commanders and mainboard as one flat list.
func (d *Deck) AllCards() []cards.Card {
	all := make([]cards.Card, 0, len(d.Commanders)+len(d.Mainboard))
	all = append(all, d.Commanders...)
	all = append(all, d.Mainboard...)
	return all
}

// ContainsName reports whether a card name is already present across
// commanders and mainboard.
func (d *Deck) ContainsName(name string) bool {
	for _, c := range d.Commanders {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	for _, c := range d.Mainboard {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// ColorIdentity returns the union of the commanders' color identities in
// canonical WUBRG order.
func (d *Deck) ColorIdentity() []string {
	present := make(map[string]bool)
	for _, c := range d.Commanders {
		for _, col := range c.ColorIdentity {
			present[strings.ToUpper(col)] = true
		}
	}
	order := []string{"W", "U", "B", "R", "G"}
	identity := make([]string, 0, len(present))
	for _, col := range order {
		if present[col] {
			identity = append(identity, col)
		}
	}
	return identity
}

// NameSet returns the set of card names across commanders and mainboard,
// lowercased. Used for singleton enforcement during deck construction.
func (d *Deck) NameSet() map[string]bool {
	names := make(map[string]bool, len(d.Commanders)+len(d.Mainboard))
	for _, c := range d.Commanders {
		names[strings.ToLower(c.Name)] = true
	}
	for _, c := range d.Mainboard {
		names[strings.ToLower(c.Name)] = true
	}
	return names
}

// StripDuplicates removes residual duplicate non-basic card names from the
// mainboard, keeping the first occurrence. Basic lands may repeat.
func (d *Deck) StripDuplicates() {
	seen := make(map[string]bool, len(d.Commanders))
	for _, c := range d.Commanders {
		seen[strings.ToLower(c.Name)] = true
	}

	kept := d.Mainboard[:0]
	for _, c := range d.Mainboard {
		key := strings.ToLower(c.Name)
		if seen[key] && !c.IsBasicLand() {
			continue
		}
		seen[key] = true
		kept = append(kept, c)
	}
	d.Mainboard = kept
}

// CardScoreEvent is the per-card scoring breakdown emitted through the trace
// hook. Contributions are keyed by scorer name.
type CardScoreEvent struct {
	CardName      string             `json:"cardName"`
	Total         float64            `json:"total"`
	Contributions map[string]float64 `json:"contributions"`
}

// TrialSummaryEvent describes one completed deck build trial.
type TrialSummaryEvent struct {
	Trial         int     `json:"trial"`
	CommanderName string  `json:"commanderName"`
	Synergy       float64 `json:"synergy"`
	DeckSize      int     `json:"deckSize"`
	Best          bool    `json:"best"`
}

// Tracer receives scoring and build-progress events. Implementations must be
// fast; they run inline with scoring. A nil Tracer disables tracing.
type Tracer interface {
	CardScored(event CardScoreEvent)
	TrialCompleted(event TrialSummaryEvent)
}

