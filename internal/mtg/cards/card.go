// Package cards defines the canonical card model used by the scoring core.
//
// All external card records (Scryfall bulk data, corpus rows, search results)
// are normalized into Card at the boundary; the scoring core never sees the
// heterogeneous upstream shapes.
package cards

import (
	"math"
	"strings"
)

// Legality values as they appear in Scryfall legality maps.
const (
	LegalityLegal      = "legal"
	LegalityRestricted = "restricted"
	LegalityBanned     = "banned"
	LegalityNotLegal   = "not_legal"
)

// Card represents comprehensive metadata about a Magic card.
//
// Name is the display key within scoring: duplicate printings share a name,
// so it is not a global primary key. The scoring fields at the bottom are
// transient decorations attached during processing; scoring works on copies
// and never mutates the corpus.
type Card struct {
	Name     string `json:"name"`
	TypeLine string `json:"type_line"`
	SetCode  string `json:"set"`

	// Mana information
	ManaCost  string  `json:"mana_cost,omitempty"`
	ManaValue float64 `json:"mana_value"`

	// Colors and identity
	Colors        []string `json:"colors,omitempty"`
	ColorIdentity []string `json:"color_identity,omitempty"`

	// Power/Toughness (creatures only)
	Power     *int `json:"power,omitempty"`
	Toughness *int `json:"toughness,omitempty"`

	Rarity          string            `json:"rarity,omitempty"`
	OracleText      string            `json:"oracle_text,omitempty"`
	Keywords        []string          `json:"keywords,omitempty"` // normalized keyword tags
	Legalities      map[string]string `json:"legalities,omitempty"`
	CollectorNumber string            `json:"collector_number,omitempty"`

	// Quantity of owned copies when the card comes from the collection.
	Quantity int `json:"quantity,omitempty"`

	// Transient scoring fields. Nil pointers mean "no signal", which the
	// scorers must treat as zero contribution, never as a perfect match.
	Distance      *float64 `json:"_distance,omitempty"`
	SemanticScore *float64 `json:"semantic_score,omitempty"`
	KeywordScore  float64  `json:"keyword_score,omitempty"`
	CombinedScore float64  `json:"combined_score,omitempty"`
	SynergyScore  float64  `json:"synergy_score,omitempty"`
}

// CurveBuckets is the number of mana-value buckets: 0..6 plus a "7+" bucket.
const CurveBuckets = 8

// CurveBucket maps a mana value onto the bucket scale {0..6, 7+}.
// Negative and non-finite values bucket to zero.
func CurveBucket(manaValue float64) int {
	if math.IsNaN(manaValue) || math.IsInf(manaValue, 0) || manaValue < 0 {
		return 0
	}
	b := int(manaValue)
	if b >= 7 {
		return 7
	}
	return b
}

// BucketLabel returns the display label for a curve bucket ("0".."6", "7+").
func BucketLabel(bucket int) string {
	if bucket >= 7 {
		return "7+"
	}
	return string(rune('0' + bucket))
}

// IsType reports whether the card's type line contains the given type word,
// case-insensitively.
func (c Card) IsType(cardType string) bool {
	return strings.Contains(strings.ToLower(c.TypeLine), strings.ToLower(cardType))
}

// IsBasicLand reports whether the card is a basic land. Basic lands are
// exempt from the singleton rule.
func (c Card) IsBasicLand() bool {
	return c.IsType("Basic") && c.IsType("Land")
}

// IsLegendaryCreature reports whether the card can lead a commander deck
// on type alone (legendary creature or a Background enchantment).
func (c Card) IsLegendaryCreature() bool {
	if c.IsType("Legendary") && c.IsType("Creature") {
		return true
	}
	return c.IsType("Background")
}

// Subtypes returns the subtype words after the em-dash of the type line,
// e.g. "Legendary Creature — Goblin Warrior" yields ["Goblin", "Warrior"].
func (c Card) Subtypes() []string {
	parts := strings.Split(c.TypeLine, "—")
	if len(parts) < 2 {
		parts = strings.SplitN(c.TypeLine, "-", 2)
	}
	if len(parts) < 2 {
		return nil
	}
	return strings.Fields(strings.TrimSpace(parts[1]))
}

// LegalIn reports whether the card may be played in the given format.
// Restricted cards count as playable; a card with no legality entry for the
// format is treated as playable so that a sparse corpus degrades a filter,
// not a ranking.
func (c Card) LegalIn(format string) bool {
	if len(c.Legalities) == 0 {
		return true
	}
	v, ok := c.Legalities[strings.ToLower(format)]
	if !ok {
		return true
	}
	return v == LegalityLegal || v == LegalityRestricted
}

// WithinColorIdentity reports whether every color in the card's identity is
// present in the given identity set.
func (c Card) WithinColorIdentity(identity []string) bool {
	if len(c.ColorIdentity) == 0 {
		return true
	}
	allowed := make(map[string]bool, len(identity))
	for _, col := range identity {
		allowed[strings.ToUpper(col)] = true
	}
	for _, col := range c.ColorIdentity {
		if !allowed[strings.ToUpper(col)] {
			return false
		}
	}
	return true
}

// HasKeywordTag reports whether the card carries the given normalized
// keyword tag.
func (c Card) HasKeywordTag(tag string) bool {
	for _, k := range c.Keywords {
		if strings.EqualFold(k, tag) {
			return true
		}
	}
	return false
}

// Completeness counts how many informational fields are populated. The
// orchestrator uses it when deduplicating printings by name: the record with
// the most information wins.
func (c Card) Completeness() int {
	n := 0
	if c.TypeLine != "" {
		n++
	}
	if c.OracleText != "" {
		n++
	}
	if c.ManaCost != "" {
		n++
	}
	if len(c.ColorIdentity) > 0 {
		n++
	}
	if len(c.Keywords) > 0 {
		n++
	}
	if len(c.Legalities) > 0 {
		n++
	}
	if c.Rarity != "" {
		n++
	}
	if c.Power != nil {
		n++
	}
	if c.Toughness != nil {
		n++
	}
	return n
}

// SearchDocument renders the card into the flat text form used for keyword
// similarity and by embedding backends: name, type line, mana cost, oracle
// text, and keyword tags on separate lines.
func (c Card) SearchDocument() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString("\n")
	b.WriteString(c.TypeLine)
	if c.ManaCost != "" {
		b.WriteString("\n")
		b.WriteString(c.ManaCost)
	}
	if c.OracleText != "" {
		b.WriteString("\n")
		b.WriteString(c.OracleText)
	}
	if len(c.Keywords) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(c.Keywords, " "))
	}
	return b.String()
}
