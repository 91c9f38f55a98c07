package recommendations

import (
	"github.com/desktopmtg/desktopmtg/internal/config"
	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

// DeckStatistics holds derived deck-level facts. Always recomputed from a
// deck snapshot; it has no lifecycle of its own.
type DeckStatistics struct {
	ThemeCounts   map[string]int  `json:"themeCounts"`
	CurveNeeds    map[int]float64 `json:"curveNeeds"` // bucket -> positive gap vs ideal
	TotalCards    int             `json:"totalCards"`
	DeckKeywords  map[string]bool `json:"deckKeywords"`
	TribalTrigger bool            `json:"tribalTrigger"`
}

// ComputeDeckStats derives statistics from a deck snapshot. Pure and total;
// an empty deck yields zero counts and the full ideal curve as needs.
func ComputeDeckStats(deck *Deck, settings *config.Settings) DeckStatistics {
	stats := DeckStatistics{
		ThemeCounts:  make(map[string]int),
		CurveNeeds:   make(map[int]float64),
		DeckKeywords: make(map[string]bool),
	}
	if deck == nil {
		return stats
	}

	all := deck.AllCards()
	stats.TotalCards = len(all)

	bucketCounts := make(map[int]int, cards.CurveBuckets)
	for _, card := range all {
		tags := DeriveKeywordTags(card)
		for _, tag := range tags {
			stats.DeckKeywords[tag] = true
		}

		for _, theme := range themeVocabulary {
			for _, tag := range tags {
				if tag == theme {
					stats.ThemeCounts[theme]++
					break
				}
			}
		}

		bucketCounts[cards.CurveBucket(card.ManaValue)]++
	}

	ideal := settings.IdealCurve()
	for bucket := 0; bucket < cards.CurveBuckets; bucket++ {
		observed := 0.0
		if stats.TotalCards > 0 {
			observed = float64(bucketCounts[bucket]) / float64(stats.TotalCards)
		}
		gap := ideal[bucket] - observed
		if gap > 0 {
			stats.CurveNeeds[bucket] = gap
		} else {
			stats.CurveNeeds[bucket] = 0
		}
	}

	stats.TribalTrigger = stats.DeckKeywords["tribal"]
	return stats
}

// ThemeFraction returns the fraction of deck cards carrying the theme.
// Zero for an empty deck.
func (s DeckStatistics) ThemeFraction(theme string) float64 {
	if s.TotalCards == 0 {
		return 0
	}
	return float64(s.ThemeCounts[theme]) / float64(s.TotalCards)
}
