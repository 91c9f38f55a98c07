package recommendations

import (
	"testing"

	"github.com/desktopmtg/desktopmtg/internal/config"
	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

func TestComputeDeckStatsEmptyDeck(t *testing.T) {
	settings := config.DefaultSettings()
	stats := ComputeDeckStats(&Deck{}, settings)

	if stats.TotalCards != 0 {
		t.Errorf("TotalCards = %d, want 0", stats.TotalCards)
	}
	// With nothing in the deck every bucket needs its full ideal share.
	ideal := settings.IdealCurve()
	for bucket := 0; bucket < cards.CurveBuckets; bucket++ {
		if stats.CurveNeeds[bucket] != ideal[bucket] {
			t.Errorf("CurveNeeds[%d] = %v, want %v", bucket, stats.CurveNeeds[bucket], ideal[bucket])
		}
	}
}

func TestComputeDeckStatsNilDeck(t *testing.T) {
	stats := ComputeDeckStats(nil, config.DefaultSettings())
	if stats.TotalCards != 0 || len(stats.ThemeCounts) != 0 {
		t.Errorf("nil deck should yield zero stats, got %+v", stats)
	}
}

func TestCurveNeedsNeverNegative(t *testing.T) {
	settings := config.DefaultSettings()

	// Overload one bucket far past its ideal share.
	deck := &Deck{}
	for i := 0; i < 50; i++ {
		deck.Mainboard = append(deck.Mainboard, cards.Card{Name: "Two Drop", ManaValue: 2})
	}

	stats := ComputeDeckStats(deck, settings)
	for bucket, gap := range stats.CurveNeeds {
		if gap < 0 {
			t.Errorf("CurveNeeds[%d] = %v, negative gap", bucket, gap)
		}
	}
	if stats.CurveNeeds[2] != 0 {
		t.Errorf("overfilled bucket should need 0, got %v", stats.CurveNeeds[2])
	}
}

func TestComputeDeckStatsCountsThemes(t *testing.T) {
	settings := config.DefaultSettings()
	deck := &Deck{
		Commanders: []cards.Card{
			{Name: "Meren", Keywords: []string{"graveyard", "sacrifice"}},
		},
		Mainboard: []cards.Card{
			{Name: "Reanimate", OracleText: "Put target creature card from a graveyard onto the battlefield under your control.", ManaValue: 1},
			{Name: "Sol Ring", OracleText: "{T}: Add {C}{C}.", ManaValue: 1},
		},
	}

	stats := ComputeDeckStats(deck, settings)
	if stats.TotalCards != 3 {
		t.Errorf("TotalCards = %d, want 3", stats.TotalCards)
	}
	if stats.ThemeCounts["graveyard"] != 2 {
		t.Errorf("graveyard count = %d, want 2", stats.ThemeCounts["graveyard"])
	}
	if !stats.DeckKeywords["sacrifice"] {
		t.Error("commander sacrifice keyword missing from deck keyword set")
	}
}

func TestComputeDeckStatsTribalTrigger(t *testing.T) {
	settings := config.DefaultSettings()

	plain := ComputeDeckStats(&Deck{
		Mainboard: []cards.Card{{Name: "Shock", OracleText: "Shock deals 2 damage to any target."}},
	}, settings)
	if plain.TribalTrigger {
		t.Error("non-tribal deck should not trigger tribal scoring")
	}

	tribal := ComputeDeckStats(&Deck{
		Mainboard: []cards.Card{{Name: "Goblin King", OracleText: "Other creatures you control get +1/+1."}},
	}, settings)
	if !tribal.TribalTrigger {
		t.Error("tribal payoff text should trigger tribal scoring")
	}
}

func TestComputeDeckStatsRoundTrip(t *testing.T) {
	// Statistics are derived, never stored: recomputing from the same deck
	// must give the same result.
	settings := config.DefaultSettings()
	deck := &Deck{
		Commanders: []cards.Card{{Name: "Krenko, Mob Boss", TypeLine: "Legendary Creature — Goblin Warrior", ManaValue: 4,
			OracleText: "{T}: Create X 1/1 red Goblin creature tokens."}},
		Mainboard: []cards.Card{
			{Name: "Goblin Guide", ManaValue: 1, TypeLine: "Creature — Goblin Scout"},
			{Name: "Skirk Prospector", ManaValue: 1, OracleText: "Sacrifice a Goblin: Add {R}.", TypeLine: "Creature — Goblin"},
		},
	}

	first := ComputeDeckStats(deck, settings)
	second := ComputeDeckStats(deck, settings)

	if first.TotalCards != second.TotalCards || first.TribalTrigger != second.TribalTrigger {
		t.Errorf("stats differ across runs: %+v vs %+v", first, second)
	}
	for theme, count := range first.ThemeCounts {
		if second.ThemeCounts[theme] != count {
			t.Errorf("theme %s count differs: %d vs %d", theme, count, second.ThemeCounts[theme])
		}
	}
	for bucket, gap := range first.CurveNeeds {
		if second.CurveNeeds[bucket] != gap {
			t.Errorf("bucket %d gap differs: %v vs %v", bucket, gap, second.CurveNeeds[bucket])
		}
	}
}

func TestThemeFraction(t *testing.T) {
	stats := DeckStatistics{ThemeCounts: map[string]int{"tokens": 25}, TotalCards: 100}
	if got := stats.ThemeFraction("tokens"); got != 0.25 {
		t.Errorf("ThemeFraction = %v, want 0.25", got)
	}
	empty := DeckStatistics{}
	if got := empty.ThemeFraction("tokens"); got != 0 {
		t.Errorf("empty deck ThemeFraction = %v, want 0", got)
	}
}
