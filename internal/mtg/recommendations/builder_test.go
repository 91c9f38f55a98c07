package recommendations

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/desktopmtg/desktopmtg/internal/config"
	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

// buildTestPool returns a pool large enough for a full greedy build: one
// legal commander, category staples, filler creatures, and basic lands.
func buildTestPool() []cards.Card {
	pool := []cards.Card{
		{Name: "Krenko, Mob Boss", TypeLine: "Legendary Creature — Goblin Warrior", ManaValue: 4,
			ColorIdentity: []string{"R"},
			OracleText:    "{T}: Create X 1/1 red Goblin creature tokens, where X is the number of Goblins you control."},
		{Name: "Sol Ring", TypeLine: "Artifact", ManaValue: 1, OracleText: "{T}: Add {C}{C} to your mana pool."},
		{Name: "Mind Stone", TypeLine: "Artifact", ManaValue: 2,
			OracleText: "{T}: Add {C} to your mana pool. {1}, {T}, Sacrifice Mind Stone: Draw a card."},
		{Name: "Faithless Looting", TypeLine: "Sorcery", ManaValue: 1, ColorIdentity: []string{"R"},
			OracleText: "Draw two cards, then discard two cards."},
		{Name: "Abrade", TypeLine: "Instant", ManaValue: 2, ColorIdentity: []string{"R"},
			OracleText: "Choose one. Destroy target artifact or Abrade deals 3 damage to target creature."},
		{Name: "Chaos Warp", TypeLine: "Instant", ManaValue: 3, ColorIdentity: []string{"R"},
			OracleText: "The owner of target permanent shuffles it into their library."},
	}
	for i := 0; i < 40; i++ {
		pool = append(pool, cards.Card{
			Name:          fmt.Sprintf("Goblin Recruit %d", i),
			TypeLine:      "Creature — Goblin",
			ManaValue:     float64(1 + i%5),
			ColorIdentity: []string{"R"},
		})
	}
	for i := 0; i < 40; i++ {
		pool = append(pool, cards.Card{Name: "Mountain", TypeLine: "Basic Land — Mountain"})
	}
	return pool
}

func deckNames(deck *Deck) []string {
	names := make([]string, 0, len(deck.Mainboard))
	for _, c := range deck.Mainboard {
		names = append(names, c.Name)
	}
	return names
}

func TestBuildGreedyCommanderDeckDeterministic(t *testing.T) {
	settings := config.DefaultSettings()
	pool := buildTestPool()

	first := NewBuilder(settings, rand.New(rand.NewSource(42)), nil).BuildGreedyCommanderDeck(pool, 3)
	second := NewBuilder(settings, rand.New(rand.NewSource(42)), nil).BuildGreedyCommanderDeck(pool, 3)

	if first.Synergy != second.Synergy {
		t.Errorf("synergy differs across identical seeds: %v vs %v", first.Synergy, second.Synergy)
	}
	a, b := deckNames(first.Deck), deckNames(second.Deck)
	if len(a) != len(b) {
		t.Fatalf("deck sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("card %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestBuildGreedyCommanderDeckSingleton(t *testing.T) {
	settings := config.DefaultSettings()
	result := NewBuilder(settings, rand.New(rand.NewSource(7)), nil).BuildGreedyCommanderDeck(buildTestPool(), 2)

	seen := map[string]bool{}
	for _, c := range result.Deck.Commanders {
		seen[strings.ToLower(c.Name)] = true
	}
	for _, c := range result.Deck.Mainboard {
		key := strings.ToLower(c.Name)
		if seen[key] && !c.IsBasicLand() {
			t.Errorf("duplicate non-basic card %q in mainboard", c.Name)
		}
		seen[key] = true
	}
}

func TestBuildGreedyCommanderDeckSizeAndLands(t *testing.T) {
	settings := config.DefaultSettings()
	result := NewBuilder(settings, rand.New(rand.NewSource(1)), nil).BuildGreedyCommanderDeck(buildTestPool(), 1)

	if len(result.Deck.Mainboard) > 99 {
		t.Errorf("mainboard has %d cards, limit is 99", len(result.Deck.Mainboard))
	}
	if len(result.Deck.Commanders) != 1 {
		t.Fatalf("commanders = %d, want 1", len(result.Deck.Commanders))
	}
	lands := countCategory(result.Deck.Mainboard, CategoryLand)
	if lands < minLands {
		t.Errorf("deck has %d lands, want at least %d", lands, minLands)
	}
}

func TestBuildGreedyCommanderDeckStaysInIdentity(t *testing.T) {
	settings := config.DefaultSettings()
	pool := buildTestPool()
	// An off-color card must never be selected for a mono-red commander.
	pool = append(pool, cards.Card{Name: "Counterspell", TypeLine: "Instant", ManaValue: 2,
		ColorIdentity: []string{"U"}, OracleText: "Counter target spell."})

	result := NewBuilder(settings, rand.New(rand.NewSource(3)), nil).BuildGreedyCommanderDeck(pool, 1)
	for _, c := range result.Deck.Mainboard {
		if c.Name == "Counterspell" {
			t.Error("off-identity card selected into mono-red deck")
		}
	}
}

func TestBuildGreedyCommanderDeckNoCommanderFallback(t *testing.T) {
	settings := config.DefaultSettings()
	pool := []cards.Card{
		{Name: "Shock", TypeLine: "Instant", ManaValue: 1},
		{Name: "Grizzly Bears", TypeLine: "Creature — Bear", ManaValue: 2},
		{Name: "Mind Stone", TypeLine: "Artifact", ManaValue: 2},
	}

	result := NewBuilder(settings, rand.New(rand.NewSource(1)), nil).BuildGreedyCommanderDeck(pool, 3)

	if result.Synergy != 0 {
		t.Errorf("fallback synergy = %v, want 0", result.Synergy)
	}
	if result.Deck == nil {
		t.Fatal("fallback must still return a deck")
	}
	if len(result.Deck.Commanders) != 1 {
		t.Errorf("fallback commanders = %d, want 1", len(result.Deck.Commanders))
	}
}

func TestBuildGreedyCommanderDeckEmptyPool(t *testing.T) {
	settings := config.DefaultSettings()
	result := NewBuilder(settings, rand.New(rand.NewSource(1)), nil).BuildGreedyCommanderDeck(nil, 3)

	if result.Synergy != 0 || result.Deck == nil {
		t.Errorf("empty pool should yield empty deck with synergy 0, got %+v", result)
	}
	if len(result.Deck.Commanders) != 0 || len(result.Deck.Mainboard) != 0 {
		t.Errorf("empty pool produced cards: %+v", result.Deck)
	}
}

func TestBuildGreedyCommanderDeckEmitsTrialEvents(t *testing.T) {
	settings := config.DefaultSettings()
	tracer := &recordingTracer{}
	NewBuilder(settings, rand.New(rand.NewSource(5)), tracer).BuildGreedyCommanderDeck(buildTestPool(), 3)

	if len(tracer.trials) != 3 {
		t.Fatalf("trial events = %d, want 3", len(tracer.trials))
	}
	if !tracer.trials[0].Best {
		t.Error("first trial is always the best so far")
	}
	for i, ev := range tracer.trials {
		if ev.Trial != i {
			t.Errorf("trial %d reported index %d", i, ev.Trial)
		}
		if ev.CommanderName == "" {
			t.Errorf("trial %d missing commander name", i)
		}
	}
}

func TestBackfillBasicLandsRoundRobin(t *testing.T) {
	settings := config.DefaultSettings()
	builder := NewBuilder(settings, rand.New(rand.NewSource(1)), nil)

	deck := &Deck{Commanders: []cards.Card{{Name: "Test Commander"}}}
	builder.backfillBasicLands(deck, 4, []string{"R", "G"})

	want := []string{"Mountain", "Forest", "Mountain", "Forest"}
	if len(deck.Mainboard) != len(want) {
		t.Fatalf("backfilled %d lands, want %d", len(deck.Mainboard), len(want))
	}
	for i, name := range want {
		if deck.Mainboard[i].Name != name {
			t.Errorf("land %d = %s, want %s", i, deck.Mainboard[i].Name, name)
		}
	}
}

func TestBackfillBasicLandsColorlessDefaultsToPlains(t *testing.T) {
	settings := config.DefaultSettings()
	builder := NewBuilder(settings, rand.New(rand.NewSource(1)), nil)

	deck := &Deck{}
	builder.backfillBasicLands(deck, 2, nil)

	for _, c := range deck.Mainboard {
		if c.Name != "Plains" {
			t.Errorf("colorless backfill produced %s, want Plains", c.Name)
		}
	}
}

func TestClassifyCard(t *testing.T) {
	tests := []struct {
		name string
		card cards.Card
		want string
	}{
		{"basic land", cards.Card{TypeLine: "Basic Land — Forest"}, CategoryLand},
		{"nonbasic land", cards.Card{TypeLine: "Land"}, CategoryLand},
		{"mana rock", cards.Card{TypeLine: "Artifact", OracleText: "{T}: Add one mana of any color."}, CategoryRamp},
		{"land tutor", cards.Card{TypeLine: "Sorcery",
			OracleText: "Search your library for a basic land card and put it onto the battlefield tapped."}, CategoryRamp},
		{"cantrip", cards.Card{TypeLine: "Instant", OracleText: "Draw a card."}, CategoryDraw},
		{"divination", cards.Card{TypeLine: "Sorcery", OracleText: "Draw two cards."}, CategoryDraw},
		{"spot removal", cards.Card{TypeLine: "Instant", OracleText: "Destroy target creature."}, CategoryRemoval},
		{"wrath", cards.Card{TypeLine: "Sorcery", OracleText: "Destroy all creatures."}, CategoryRemoval},
		{"counterspell", cards.Card{TypeLine: "Instant", OracleText: "Counter target spell."}, CategoryRemoval},
		{"vanilla creature", cards.Card{TypeLine: "Creature — Bear"}, CategoryOther},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyCard(tc.card); got != tc.want {
				t.Errorf("ClassifyCard = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestEvaluateDeckSynergyPenalties(t *testing.T) {
	quotas := Quotas{LandTarget: 2, RampTarget: 1, DrawTarget: 0, RemovalTarget: 0}

	deck := &Deck{Mainboard: []cards.Card{
		{Name: "Forest", TypeLine: "Basic Land — Forest", SynergyScore: 1},
		{Name: "Bear", TypeLine: "Creature — Bear", SynergyScore: 4},
	}}

	// One land short (-50) and one ramp short (-30) against 5 raw synergy.
	got := evaluateDeckSynergy(deck, quotas)
	if got != 5-50-30 {
		t.Errorf("synergy = %v, want %v", got, 5-50-30)
	}
}
