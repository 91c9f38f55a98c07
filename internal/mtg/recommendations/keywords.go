package recommendations

import (
	"strings"

	"github.com/desktopmtg/desktopmtg/internal/mtg/cards"
)

// themeVocabulary is the fixed set of deck themes tracked by the statistics
// aggregator, in counting order.
var themeVocabulary = []string{
	"graveyard", "counters", "tokens", "artifacts", "spells",
	"lifegain", "sacrifice", "tribal",
}

// keywordPartners maps a keyword tag to tags known to synergize with it.
// The table is symmetric where the synergy runs both ways.
var keywordPartners = map[string][]string{
	"proliferate": {"counters", "poison"},
	"counters":    {"proliferate", "graveyard"},
	"dredge":      {"graveyard", "mill"},
	"mill":        {"dredge", "graveyard"},
	"graveyard":   {"dredge", "mill", "sacrifice"},
	"lifelink":    {"lifegain"},
	"lifegain":    {"lifelink"},
	"sacrifice":   {"tokens", "graveyard"},
	"tokens":      {"sacrifice", "populate"},
	"populate":    {"tokens"},
	"landfall":    {"ramp"},
	"ramp":        {"landfall"},
	"prowess":     {"spells"},
	"spells":      {"prowess"},
	"equipment":   {"artifacts"},
	"artifacts":   {"equipment"},
	"deathtouch":  {"first strike"},
	"flying":      {"reach"},
}

// themeTagPatterns maps each theme tag to oracle-text phrases that imply it.
// Used to backfill keyword tags for corpus records that carry none.
var themeTagPatterns = map[string][]string{
	"graveyard": {"graveyard", "dredge", "flashback", "unearth", "disturb"},
	"counters":  {"+1/+1 counter", "proliferate", "loyalty counter", "charge counter"},
	"tokens":    {"create a", "token", "populate"},
	"artifacts": {"artifact"},
	"spells":    {"instant or sorcery", "noncreature spell", "prowess", "magecraft"},
	"lifegain":  {"gain life", "gains life", "lifelink", "life you gained"},
	"sacrifice": {"sacrifice a", "sacrifice another", "sacrificed"},
	"tribal":    {"other creatures you control", "creatures you control get", "choose a creature type"},
}

// DeriveKeywordTags produces normalized keyword tags for a card that has
// none, from its declared keywords plus theme phrases in its oracle text.
// Tags appear in fixed vocabulary order so derived tag lists are stable.
func DeriveKeywordTags(card cards.Card) []string {
	if len(card.Keywords) > 0 {
		return card.Keywords
	}
	text := strings.ToLower(card.OracleText)
	if text == "" {
		return nil
	}

	var tags []string
	for _, theme := range themeVocabulary {
		for _, phrase := range themeTagPatterns[theme] {
			if strings.Contains(text, phrase) {
				tags = append(tags, theme)
				break
			}
		}
	}
	for _, kw := range keywordVocabulary {
		if strings.Contains(text, kw) {
			tags = append(tags, kw)
		}
	}
	return tags
}

// KeywordSimilarity scores how well a card matches a free-text query without
// any external search signal, normalized to [0,1]. It blends direct term
// overlap, theme overlap, tribal mentions, and engine hints.
func KeywordSimilarity(query string, card cards.Card) float64 {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return 0
	}
	doc := strings.ToLower(card.SearchDocument())

	var score, checks float64

	// Direct term overlap between query words and the card document.
	terms := strings.Fields(query)
	if len(terms) > 0 {
		hits := 0
		for _, term := range terms {
			term = strings.Trim(term, ".,;:\"'")
			if len(term) < 3 {
				continue
			}
			if strings.Contains(doc, term) {
				hits++
			}
		}
		score += float64(hits) / float64(len(terms))
		checks++
	}

	// Theme overlap between query and card tags.
	tags := DeriveKeywordTags(card)
	tagSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagSet[t] = true
	}
	themeHits, themeTotal := 0, 0
	for _, theme := range themeVocabulary {
		if !strings.Contains(query, theme) {
			continue
		}
		themeTotal++
		if tagSet[theme] {
			themeHits++
		}
	}
	if themeTotal > 0 {
		score += float64(themeHits) / float64(themeTotal)
		checks++
	}

	// Tribal mentions shared between query and card.
	patterns := AnalyzeOracleText(card.OracleText)
	tribalHits, tribalTotal := 0, 0
	for _, tribe := range tribalVocabulary {
		if !strings.Contains(query, tribe) {
			continue
		}
		tribalTotal++
		for _, syn := range patterns.TypeSynergies.Tribal {
			if syn.Type == tribe {
				tribalHits++
				break
			}
		}
		if card.IsType(tribe) {
			tribalHits++
		}
	}
	if tribalTotal > 0 {
		frac := float64(tribalHits) / float64(tribalTotal*2)
		score += frac
		checks++
	}

	// Engine hints: a query asking for draw/sacrifice/discard loops matches
	// cards with the corresponding engine.
	engineHits, engineTotal := 0, 0
	for _, engine := range []string{"draw", "sacrifice", "discard"} {
		if !strings.Contains(query, engine) {
			continue
		}
		engineTotal++
		for _, e := range patterns.Engines {
			if strings.Contains(e.Type, engine) {
				engineHits++
				break
			}
		}
	}
	if engineTotal > 0 {
		score += float64(engineHits) / float64(engineTotal)
		checks++
	}

	if checks == 0 {
		return 0
	}
	result := score / checks
	if result > 1 {
		result = 1
	}
	if result < 0 {
		result = 0
	}
	return result
}
