package recommendations

import (
	"math"
	"sort"

	"github.com/desktopmtg/desktopmtg/internal/config"
	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

// tieEpsilon is the score difference below which two cards are considered
// tied and ordered alphabetically instead.
const tieEpsilon = 0.01

// RerankBySynergy scores every candidate against the deck and returns a new
// slice sorted descending by total synergy. Input slices are never mutated;
// scored copies are returned with SynergyScore populated and rounded to two
// decimals. Empty or nil input yields an empty slice.
func RerankBySynergy(candidates []cards.Card, deck *Deck, format string, settings *config.Settings, tracer Tracer) []cards.Card {
	if len(candidates) == 0 || deck == nil || settings == nil {
		return []cards.Card{}
	}

	stats := ComputeDeckStats(deck, settings)

	scored := make([]cards.Card, len(candidates))
	for i, card := range candidates {
		total := 0.0
		var contributions map[string]float64
		if tracer != nil {
			contributions = make(map[string]float64, len(scorerPipeline))
		}
		for _, s := range scorerPipeline {
			v := finite(s.score(card, stats, format, settings), 0)
			total += v
			if contributions != nil {
				contributions[s.name] = v
			}
		}
		card.SynergyScore = math.Round(total*100) / 100
		scored[i] = card
		if tracer != nil {
			tracer.CardScored(CardScoreEvent{
				CardName:      card.Name,
				Total:         card.SynergyScore,
				Contributions: contributions,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		diff := scored[i].SynergyScore - scored[j].SynergyScore
		if math.Abs(diff) < tieEpsilon {
			return scored[i].Name < scored[j].Name
		}
		return diff > 0
	})

	return scored
}
