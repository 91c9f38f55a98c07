package recommendations

import (
	"testing"

	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

func TestDeriveKeywordTagsPrefersDeclaredKeywords(t *testing.T) {
	card := cards.Card{
		Keywords:   []string{"flying", "lifelink"},
		OracleText: "Sacrifice a creature: you gain 2 life.",
	}
	tags := DeriveKeywordTags(card)
	if len(tags) != 2 || tags[0] != "flying" || tags[1] != "lifelink" {
		t.Errorf("declared keywords should win, got %v", tags)
	}
}

func TestDeriveKeywordTagsFromOracleText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantTag string
	}{
		{"graveyard", "Return target creature card from your graveyard to your hand.", "graveyard"},
		{"counters", "Put a +1/+1 counter on each creature you control.", "counters"},
		{"tokens", "Create a 1/1 white Soldier creature token.", "tokens"},
		{"lifegain", "Whenever you gain life, draw a card.", "lifegain"},
		{"sacrifice", "Sacrifice a creature: add {B}.", "sacrifice"},
		{"keyword ability", "Flying, vigilance", "flying"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := DeriveKeywordTags(cards.Card{OracleText: tt.text})
			for _, tag := range tags {
				if tag == tt.wantTag {
					return
				}
			}
			t.Errorf("tag %q not derived from %q, got %v", tt.wantTag, tt.text, tags)
		})
	}
}

func TestDeriveKeywordTagsEmptyCard(t *testing.T) {
	if tags := DeriveKeywordTags(cards.Card{}); tags != nil {
		t.Errorf("empty card should derive no tags, got %v", tags)
	}
}

func TestDeriveKeywordTagsStableOrder(t *testing.T) {
	card := cards.Card{OracleText: "Sacrifice a creature: return target card from your graveyard to your hand. Create a 1/1 token."}
	first := DeriveKeywordTags(card)
	second := DeriveKeywordTags(card)
	if len(first) != len(second) {
		t.Fatalf("tag count differs between runs: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("tag order differs at %d: %v vs %v", i, first, second)
		}
	}
}

func TestKeywordSimilarityRange(t *testing.T) {
	cardSet := []cards.Card{
		{},
		{Name: "Lightning Bolt", TypeLine: "Instant", OracleText: "Lightning Bolt deals 3 damage to any target."},
		{Name: "Goblin Chieftain", TypeLine: "Creature — Goblin", OracleText: "Other Goblins you control get +1/+1 and have haste."},
		{Name: "Soul Warden", OracleText: "Whenever another creature enters, you gain 1 life."},
	}
	queries := []string{"", "goblin tribal sacrifice", "lifegain", "draw engine", "Krenko, Mob Boss goblin tokens"}

	for _, q := range queries {
		for _, c := range cardSet {
			got := KeywordSimilarity(q, c)
			if got < 0 || got > 1 {
				t.Errorf("KeywordSimilarity(%q, %q) = %v, out of [0,1]", q, c.Name, got)
			}
		}
	}
}

func TestKeywordSimilarityRewardsRelevance(t *testing.T) {
	query := "goblin tribal tokens"
	lord := cards.Card{
		Name:       "Goblin Chieftain",
		TypeLine:   "Creature — Goblin",
		OracleText: "Other Goblins you control get +1/+1. Create a 1/1 red Goblin creature token.",
	}
	offTheme := cards.Card{
		Name:       "Healing Salve",
		TypeLine:   "Instant",
		OracleText: "You gain 3 life.",
	}

	if KeywordSimilarity(query, lord) <= KeywordSimilarity(query, offTheme) {
		t.Errorf("on-theme card should outscore off-theme card: %v vs %v",
			KeywordSimilarity(query, lord), KeywordSimilarity(query, offTheme))
	}
}

func TestKeywordSimilarityEmptyQuery(t *testing.T) {
	card := cards.Card{Name: "Sol Ring", OracleText: "{T}: Add {C}{C}."}
	if got := KeywordSimilarity("", card); got != 0 {
		t.Errorf("empty query should score 0, got %v", got)
	}
}
