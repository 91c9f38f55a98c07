package cards

import (
	"strconv"
	"strings"
)

// ScryfallCard mirrors the subset of the Scryfall bulk-data card object that
// the corpus importer consumes. Multi-faced cards carry their text on
// CardFaces with an empty top-level OracleText.
type ScryfallCard struct {
	ID              string              `json:"id"`
	OracleID        string              `json:"oracle_id"`
	Name            string              `json:"name"`
	TypeLine        string              `json:"type_line"`
	ManaCost        string              `json:"mana_cost"`
	CMC             float64             `json:"cmc"`
	OracleText      string              `json:"oracle_text"`
	Colors          []string            `json:"colors"`
	ColorIdentity   []string            `json:"color_identity"`
	Keywords        []string            `json:"keywords"`
	Power           string              `json:"power"`
	Toughness       string              `json:"toughness"`
	Rarity          string              `json:"rarity"`
	Set             string              `json:"set"`
	CollectorNumber string              `json:"collector_number"`
	Legalities      map[string]string   `json:"legalities"`
	Layout          string              `json:"layout"`
	CardFaces       []ScryfallCardFace  `json:"card_faces,omitempty"`
}

// ScryfallCardFace is one face of a multi-faced card.
type ScryfallCardFace struct {
	Name       string   `json:"name"`
	TypeLine   string   `json:"type_line"`
	ManaCost   string   `json:"mana_cost"`
	OracleText string   `json:"oracle_text"`
	Colors     []string `json:"colors"`
	Power      string   `json:"power"`
	Toughness  string   `json:"toughness"`
}

// Normalize converts a raw Scryfall record into the canonical Card. Faces of
// multi-faced cards are folded together: oracle texts join with a separator,
// and the front face supplies the stats when the top level is empty.
func (sc ScryfallCard) Normalize() Card {
	c := Card{
		Name:            sc.Name,
		TypeLine:        sc.TypeLine,
		SetCode:         sc.Set,
		ManaCost:        sc.ManaCost,
		ManaValue:       sc.CMC,
		Colors:          sc.Colors,
		ColorIdentity:   sc.ColorIdentity,
		Rarity:          sc.Rarity,
		OracleText:      sc.OracleText,
		Keywords:        normalizeKeywords(sc.Keywords),
		Legalities:      sc.Legalities,
		CollectorNumber: sc.CollectorNumber,
	}

	if len(sc.CardFaces) > 0 {
		texts := make([]string, 0, len(sc.CardFaces))
		for _, f := range sc.CardFaces {
			if f.OracleText != "" {
				texts = append(texts, f.OracleText)
			}
		}
		if c.OracleText == "" {
			c.OracleText = strings.Join(texts, "\n//\n")
		}
		front := sc.CardFaces[0]
		if c.ManaCost == "" {
			c.ManaCost = front.ManaCost
		}
		if c.TypeLine == "" {
			c.TypeLine = front.TypeLine
		}
		if sc.Power == "" {
			sc.Power = front.Power
		}
		if sc.Toughness == "" {
			sc.Toughness = front.Toughness
		}
	}

	c.Power = parseStat(sc.Power)
	c.Toughness = parseStat(sc.Toughness)
	return c
}

// parseStat converts a printed power/toughness to an int. Variable stats
// such as "*" or "1+*" have no numeric value and normalize to nil.
func parseStat(s string) *int {
	if s == "" || strings.Contains(s, "*") {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// normalizeKeywords lowercases and dedupes keyword tags while keeping the
// first-seen order.
func normalizeKeywords(kws []string) []string {
	if len(kws) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(kws))
	out := make([]string, 0, len(kws))
	for _, k := range kws {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
