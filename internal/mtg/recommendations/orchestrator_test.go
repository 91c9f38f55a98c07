package recommendations

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desktopmtg/desktopmtg/internal/config"
	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

type fakeSearchClient struct {
	cards    []cards.Card
	err      error
	gotQuery string
	gotLimit int
}

func (f *fakeSearchClient) Search(_ context.Context, query string, limit int) ([]cards.Card, error) {
	f.gotQuery = query
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	out := make([]cards.Card, len(f.cards))
	copy(out, f.cards)
	return out, nil
}

type fakeCorpus struct {
	collection []cards.Card
	err        error
}

func (f *fakeCorpus) FindCardByName(_ context.Context, name string) (*cards.Card, error) {
	for i := range f.collection {
		if strings.EqualFold(f.collection[i].Name, name) {
			return &f.collection[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeCorpus) FindCardByDetails(ctx context.Context, name, _, _ string) (*cards.Card, error) {
	return f.FindCardByName(ctx, name)
}

func (f *fakeCorpus) GetCollectedCards(_ context.Context) ([]cards.Card, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.collection, nil
}

func TestRecommendSearchFailure(t *testing.T) {
	settings := config.DefaultSettings()
	search := &fakeSearchClient{err: errors.New("connection refused")}
	orch := NewOrchestrator(search, nil, settings, nil, nil)

	result := orch.Recommend(context.Background(), &Deck{}, "commander", RecommendOptions{})

	if result.Cards == nil || len(result.Cards) != 0 {
		t.Errorf("failure should yield empty non-nil Cards, got %v", result.Cards)
	}
	if !strings.HasPrefix(result.Status, "search unavailable:") {
		t.Errorf("Status = %q, want search unavailable prefix", result.Status)
	}
	if result.Query == "" {
		t.Error("Query should be populated even on failure")
	}
}

func TestRecommendHappyPath(t *testing.T) {
	settings := config.DefaultSettings()
	search := &fakeSearchClient{cards: []cards.Card{
		{Name: "Goblin Matron", TypeLine: "Creature — Goblin", ManaValue: 3, ColorIdentity: []string{"R"},
			OracleText: "When this creature enters, you may search your library for a Goblin card."},
		{Name: "Skirk Prospector", TypeLine: "Creature — Goblin", ManaValue: 1, ColorIdentity: []string{"R"},
			OracleText: "Sacrifice a Goblin: Add {R}."},
		{Name: "Shock", TypeLine: "Instant", ManaValue: 1, ColorIdentity: []string{"R"},
			OracleText: "Shock deals 2 damage to any target."},
	}}
	orch := NewOrchestrator(search, nil, settings, nil, nil)

	deck := &Deck{Commanders: []cards.Card{
		{Name: "Krenko, Mob Boss", TypeLine: "Legendary Creature — Goblin Warrior",
			ManaValue: 4, ColorIdentity: []string{"R"},
			OracleText: "{T}: Create X 1/1 red Goblin creature tokens."},
	}}

	result := orch.Recommend(context.Background(), deck, "commander", RecommendOptions{Limit: 2})

	if result.Status != StatusOK {
		t.Fatalf("Status = %q, want %q", result.Status, StatusOK)
	}
	if len(result.Cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(result.Cards))
	}
	for i := 1; i < len(result.Cards); i++ {
		if result.Cards[i].SynergyScore > result.Cards[i-1].SynergyScore {
			t.Errorf("results not sorted descending at %d", i)
		}
	}
	if search.gotLimit < 6 {
		t.Errorf("search limit = %d, want at least 3x the result limit", search.gotLimit)
	}
}

func TestRecommendDropsCardsAlreadyInDeck(t *testing.T) {
	settings := config.DefaultSettings()
	search := &fakeSearchClient{cards: []cards.Card{
		{Name: "Shock", ColorIdentity: []string{"R"}},
		{Name: "Lightning Bolt", ColorIdentity: []string{"R"}},
	}}
	orch := NewOrchestrator(search, nil, settings, nil, nil)

	deck := &Deck{
		Commanders: []cards.Card{{Name: "Krenko, Mob Boss", TypeLine: "Legendary Creature — Goblin", ColorIdentity: []string{"R"}}},
		Mainboard:  []cards.Card{{Name: "Shock"}},
	}

	result := orch.Recommend(context.Background(), deck, "commander", RecommendOptions{})
	for _, c := range result.Cards {
		if strings.EqualFold(c.Name, "Shock") {
			t.Error("card already in deck was recommended")
		}
	}
}

func TestRecommendEnforcesColorIdentity(t *testing.T) {
	settings := config.DefaultSettings()
	search := &fakeSearchClient{cards: []cards.Card{
		{Name: "Counterspell", ColorIdentity: []string{"U"}},
		{Name: "Lightning Bolt", ColorIdentity: []string{"R"}},
	}}
	orch := NewOrchestrator(search, nil, settings, nil, nil)

	deck := &Deck{Commanders: []cards.Card{
		{Name: "Krenko, Mob Boss", TypeLine: "Legendary Creature — Goblin", ColorIdentity: []string{"R"}},
	}}

	result := orch.Recommend(context.Background(), deck, "commander", RecommendOptions{})

	if len(result.Cards) != 1 || result.Cards[0].Name != "Lightning Bolt" {
		t.Errorf("got %v, want only Lightning Bolt", deckNamesOf(result.Cards))
	}
}

func TestRecommendNoIdentityFilterOutsideCommander(t *testing.T) {
	settings := config.DefaultSettings()
	search := &fakeSearchClient{cards: []cards.Card{
		{Name: "Counterspell", ColorIdentity: []string{"U"}},
	}}
	orch := NewOrchestrator(search, nil, settings, nil, nil)

	deck := &Deck{Mainboard: []cards.Card{{Name: "Lightning Bolt", ColorIdentity: []string{"R"}}}}
	result := orch.Recommend(context.Background(), deck, "modern", RecommendOptions{})

	if len(result.Cards) != 1 {
		t.Errorf("sixty-card formats have no identity filter, got %v", deckNamesOf(result.Cards))
	}
}

func TestRecommendFiltersIllegalCards(t *testing.T) {
	settings := config.DefaultSettings()
	search := &fakeSearchClient{cards: []cards.Card{
		{Name: "Legal Card", Legalities: map[string]string{"commander": "legal"}},
		{Name: "Banned Card", Legalities: map[string]string{"commander": "banned"}},
	}}
	orch := NewOrchestrator(search, nil, settings, nil, nil)

	result := orch.Recommend(context.Background(), &Deck{}, "commander", RecommendOptions{})
	for _, c := range result.Cards {
		if c.Name == "Banned Card" {
			t.Error("banned card was recommended")
		}
	}
}

func TestRecommendOwnedOnly(t *testing.T) {
	settings := config.DefaultSettings()
	search := &fakeSearchClient{cards: []cards.Card{
		{Name: "Owned Card"},
		{Name: "Missing Card"},
	}}
	corpus := &fakeCorpus{collection: []cards.Card{{Name: "Owned Card"}}}
	orch := NewOrchestrator(search, corpus, settings, nil, nil)

	result := orch.Recommend(context.Background(), &Deck{}, "commander", RecommendOptions{OwnedOnly: true})

	if len(result.Cards) != 1 || result.Cards[0].Name != "Owned Card" {
		t.Errorf("got %v, want only Owned Card", deckNamesOf(result.Cards))
	}
}

func TestRecommendOwnedOnlyCollectionFailureSkipsFilter(t *testing.T) {
	settings := config.DefaultSettings()
	search := &fakeSearchClient{cards: []cards.Card{{Name: "Some Card"}}}
	corpus := &fakeCorpus{err: errors.New("db locked")}
	orch := NewOrchestrator(search, corpus, settings, nil, nil)

	result := orch.Recommend(context.Background(), &Deck{}, "commander", RecommendOptions{OwnedOnly: true})

	if result.Status != StatusOK || len(result.Cards) != 1 {
		t.Errorf("collection failure should degrade to unfiltered results, got %+v", result)
	}
}

func TestRecommendNilDeck(t *testing.T) {
	settings := config.DefaultSettings()
	search := &fakeSearchClient{cards: []cards.Card{{Name: "Some Card"}}}
	orch := NewOrchestrator(search, nil, settings, nil, nil)

	result := orch.Recommend(context.Background(), nil, "commander", RecommendOptions{})
	if result.Status != StatusOK {
		t.Errorf("nil deck should be treated as empty, got status %q", result.Status)
	}
}

func TestDedupeByCompleteness(t *testing.T) {
	sparse := cards.Card{Name: "Shock"}
	full := cards.Card{Name: "Shock", TypeLine: "Instant", ManaCost: "{R}", OracleText: "Shock deals 2 damage to any target.",
		Colors: []string{"R"}, ColorIdentity: []string{"R"}, SetCode: "m21"}

	out := dedupeByCompleteness([]cards.Card{
		{Name: "First"},
		sparse,
		full,
	})

	if len(out) != 2 {
		t.Fatalf("got %d cards, want 2", len(out))
	}
	if out[0].Name != "First" {
		t.Error("first-appearance order not preserved")
	}
	if out[1].SetCode != "m21" {
		t.Error("more complete printing should replace the sparse one in place")
	}
}

func TestBlendScores(t *testing.T) {
	settings := config.DefaultSettings()
	orch := NewOrchestrator(nil, nil, settings, nil, nil)

	withSemantic := cards.Card{Name: "Test", SemanticScore: floatPtr(0.8)}
	noSignal := cards.Card{Name: "Test"}

	tests := []struct {
		name     string
		card     cards.Card
		keyword  float64
		strategy string
		want     float64
	}{
		{"primary uses semantic when present", withSemantic, 0.4, config.StrategyPrimaryFallback, 0.8},
		{"primary falls back to keyword", noSignal, 0.4, config.StrategyPrimaryFallback, 0.4},
		{"weighted average", withSemantic, 0.4, config.StrategyWeightedAverage, (0.8*0.7 + 0.4*0.3) / 1.0},
		{"maximum", withSemantic, 0.9, config.StrategyMaximum, 0.9},
		{"product", withSemantic, 0.5, config.StrategyProduct, 0.4},
		{"sum caps at one", withSemantic, 0.5, config.StrategySum, 1.0},
		{"semantic only", withSemantic, 0.9, config.StrategySemanticOnly, 0.8},
		{"keyword only", withSemantic, 0.9, config.StrategyKeywordOnly, 0.9},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := orch.blendScores(tc.card, tc.keyword, tc.strategy)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("blendScores = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBlendScoresPrimaryFallbackEpsilon(t *testing.T) {
	// A semantic score at or below epsilon is treated as no signal.
	settings := config.DefaultSettings()
	orch := NewOrchestrator(nil, nil, settings, nil, nil)

	card := cards.Card{Name: "Test", SemanticScore: floatPtr(0.005)}
	got := orch.blendScores(card, 0.6, config.StrategyPrimaryFallback)
	if got != 0.6 {
		t.Errorf("blendScores = %v, want keyword fallback 0.6", got)
	}
}

func deckNamesOf(list []cards.Card) []string {
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	return names
}
